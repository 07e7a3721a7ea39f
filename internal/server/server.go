// Package server exposes path runs over HTTP.
//
// Routes:
//
//	POST /pathlinker/v1/run   run a search over the posted network
//	GET  /healthz             liveness and build info
//
// A run request carries the network inline:
//
//	{
//	  "network": {"edges": [{"from": "S", "to": "T", "weight": 0.5}]},
//	  "sources": ["S"],
//	  "targets": ["T"],
//	  "k": 10,
//	  "weight": "probability",
//	  "timeout": "30s"
//	}
//
// and the response is the JSON export document of the result. Errors are
// written as {"code": ..., "message": ...}.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pathlinker/pkg/pipeline"
)

const (
	// DefaultMaxBodyBytes bounds the size of a run request.
	DefaultMaxBodyBytes = 64 << 20

	shutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// MaxBodyBytes bounds request bodies. Zero selects DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// MaxTimeout caps the per-request timeout. Zero means no cap.
	MaxTimeout time.Duration
	// Defaults seeds the options of every run before the request is applied.
	Defaults pipeline.Options
}

// Server serves run requests with a shared runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
}

// New creates a server. A nil logger selects log.Default().
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{runner: runner, logger: logger, opts: opts}
}

// Handler returns the routed handler with middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/pathlinker/v1", func(r chi.Router) {
		r.Post("/run", s.handleRun)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
