// Package server exposes the solver over HTTP.
//
// Routes:
//
//	GET    /healthz                   liveness and build info
//	POST   /v1/solve                  one-shot solve (and optional render)
//	POST   /v1/sessions               create a session and solve it
//	GET    /v1/sessions/{id}          solve the session's current state
//	POST   /v1/sessions/{id}/scroll   scroll a vertical node, then solve
//	POST   /v1/sessions/{id}/resize   change the window, then solve
//	DELETE /v1/sessions/{id}          drop a session
//
// Session routes accept ?format=svg (or any pipeline format) to get the
// rendered artifact instead of the JSON frame.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/crystal/pkg/cache"
	"github.com/matzehuels/crystal/pkg/pipeline"
	"github.com/matzehuels/crystal/pkg/session"
)

// Defaults for server limits.
const (
	DefaultAddr         = "127.0.0.1:8480"
	DefaultMaxBodyBytes = 4 << 20
	DefaultTimeout      = 30 * time.Second
	cleanupInterval     = time.Minute
)

// Server handles the HTTP API. It is safe for concurrent use.
type Server struct {
	runner   *pipeline.Runner
	sessions session.Store
	logger   *log.Logger
	ttl      time.Duration
	maxBody  int64
	timeout  time.Duration
	router   chi.Router

	sweepEvery time.Duration

	// locks serializes read-modify-write updates per session id.
	locks keyedMutex
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithSessionTTL sets how long an idle session lives.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) { s.ttl = d }
}

// WithMaxBodyBytes limits request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// WithTimeout bounds the time spent on one request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New creates a server. A nil runner solves with an in-memory cache and a
// nil store keeps sessions in memory.
func New(runner *pipeline.Runner, sessions session.Store, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		sessions: sessions,
		ttl:      session.DefaultTTL,
		maxBody:  DefaultMaxBodyBytes,
		timeout:  DefaultTimeout,

		sweepEvery: cleanupInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(cache.NewMemoryCache(), nil, s.logger)
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore()
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/scroll", s.handleScroll)
				r.Post("/resize", s.handleResize)
			})
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{Code: "NOT_FOUND", Message: "no such route"}})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully. Expired sessions are swept in the background; the sweeper
// has stopped by the time ListenAndServe returns, whatever the outcome.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.sweep(ctx)
	}()
	defer wg.Wait()
	defer cancel()

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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

// Close releases the runner's cache and the session store.
func (s *Server) Close() error {
	return errors.Join(s.runner.Close(), s.sessions.Close())
}
