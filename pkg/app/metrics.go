package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// openProjects tracks how many projects the store holds
	openProjects = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "anthem_open_projects",
		Help: "Number of projects currently open",
	})

	// requestsTotal counts handled requests by message and result
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anthem_requests_total",
		Help: "Total requests handled by message and result",
	}, []string{"msg", "result"})
)
