// Package server exposes the solver over HTTP.
//
// Routes:
//
//	POST /v1/solve   raw problem payload -> binary answer
//	POST /v1/score   JSON problem and solution -> {"score": N}
//	GET  /healthz    liveness
//	GET  /metrics    Prometheus exposition
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paiv/icfpc2023/pkg/pipeline"
	"github.com/paiv/icfpc2023/pkg/placement"
	"github.com/paiv/icfpc2023/pkg/problem"
)

// HTTP server timeouts. Writes are bounded by the solve limit instead.
const (
	readTimeout       = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
	writeSlack        = 30 * time.Second

	// DefaultMaxTimeLimit caps the solve time a request may ask for, and the
	// payload's own limit.
	DefaultMaxTimeLimit = 5 * time.Minute

	// DefaultMaxBodyBytes bounds request bodies.
	DefaultMaxBodyBytes = 64 << 20
)

// RequestObserver records one finished HTTP request. *metrics.Manager
// satisfies it.
type RequestObserver interface {
	ObserveHTTPRequest(route, method string, status int, d time.Duration)
}

// Server serves the solver API.
type Server struct {
	runner       *pipeline.Runner
	logger       *log.Logger
	observer     RequestObserver
	gatherer     prometheus.Gatherer
	gridRadius   float64
	cutoff       int
	maxGrid      int
	maxTimeLimit time.Duration
	maxBody      int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver records per-route request metrics.
func WithObserver(o RequestObserver) Option {
	return func(s *Server) { s.observer = o }
}

// WithGatherer sets the registry served at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithGridRadius sets the grid spacing used for every solve.
func WithGridRadius(r float64) Option {
	return func(s *Server) { s.gridRadius = r }
}

// WithLightningCutoff sets the last problem id scored without closeness.
func WithLightningCutoff(pid int) Option {
	return func(s *Server) { s.cutoff = pid }
}

// WithMaxGridPoints bounds the candidate grid of each solve. Larger stages
// are rejected with 400.
func WithMaxGridPoints(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxGrid = n
		}
	}
}

// WithMaxTimeLimit caps per-request solve time.
func WithMaxTimeLimit(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.maxTimeLimit = d
		}
	}
}

// WithMaxBodyBytes bounds request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// New returns a Server solving through runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:       runner,
		logger:       log.NewWithOptions(io.Discard, log.Options{}),
		gatherer:     prometheus.DefaultGatherer,
		gridRadius:   placement.DefaultGridRadius,
		cutoff:       problem.DefaultLightningCutoff,
		maxGrid:      placement.DefaultMaxGridPoints,
		maxTimeLimit: DefaultMaxTimeLimit,
		maxBody:      DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Post("/score", s.handleScore)
	})
	return r
}

// Run listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      s.maxTimeLimit + writeSlack,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
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
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
