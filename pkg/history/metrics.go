package history

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// pushesTotal counts commands recorded onto undo history
	pushesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anthem_history_pushes_total",
		Help: "Total commands pushed onto undo history",
	})

	// stepsTotal counts undo and redo requests by outcome
	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anthem_history_steps_total",
		Help: "Total undo/redo steps by direction and result",
	}, []string{"direction", "result"})

	// journalPagesTotal counts journal commits by result
	journalPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anthem_journal_pages_total",
		Help: "Total journal entries committed by result",
	}, []string{"result"})

	// journalPageSize tracks how many commands a committed page groups
	journalPageSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "anthem_journal_page_size",
		Help:    "Number of commands grouped per committed journal page",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})
)
