package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tableflip.dev/anthem/pkg/app"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

// Runner coordinates MCP server startup.
type Runner struct {
	App     *app.Service
	Name    string
	Version string

	// Init opens a first project (and starts the engine) before serving.
	Init bool

	Transport        Transport
	HTTPListenAddr   string
	HTTPEndpointPath string
	OnHTTPListening  func(net.Addr)
	HTTPServerCert   string
	HTTPServerKey    string
	// MetricsPath serves prometheus metrics next to the MCP endpoint in HTTP
	// mode. Empty disables it.
	MetricsPath string
}

// Run starts the Model Context Protocol server using stdio transport.
func Run(ctx context.Context, svc *app.Service) error {
	r := Runner{
		App:       svc,
		Name:      "anthem",
		Version:   "dev",
		Transport: TransportStdio,
	}
	return r.Do(ctx)
}

// Do executes the runner.
func (r Runner) Do(ctx context.Context) error {
	if r.App == nil {
		return errors.New("mcp runner requires a service")
	}
	name := r.Name
	if name == "" {
		name = "anthem"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Edit anthem projects with undoable commands. Group related edits with journal_start and journal_commit so they undo as one step."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)

	svc := NewService(r.App)
	registerResources(srv, svc)
	registerTools(srv, svc)

	if r.Init {
		replies, err := svc.Do(ctx, app.Init{})
		if err != nil {
			return err
		}
		svc.logger().Info("mcp session initialised", "project", replies[0].ProjectID)
	}

	switch t := r.Transport; t {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv)
	case TransportStdio:
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", t)
	}
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	if (r.HTTPServerCert != "" && r.HTTPServerKey == "") || (r.HTTPServerCert == "" && r.HTTPServerKey != "") {
		return errors.New("both http tls cert and key must be provided")
	}

	handler := server.NewStreamableHTTPServer(srv)

	path := r.HTTPEndpointPath
	if path == "" {
		path = "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	listenAddr := r.HTTPListenAddr
	if listenAddr == "" {
		listenAddr = "127.0.0.1:8080"
	}

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	if r.MetricsPath != "" {
		mux.Handle(r.MetricsPath, promhttp.Handler())
	}

	httpSrv := &http.Server{
		Handler: mux,
	}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	if r.OnHTTPListening != nil {
		r.OnHTTPListening(ln.Addr())
	}

	if ctx != nil {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()
	}

	if r.HTTPServerCert != "" && r.HTTPServerKey != "" {
		err = httpSrv.ServeTLS(ln, r.HTTPServerCert, r.HTTPServerKey)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
