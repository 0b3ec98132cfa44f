// Package server exposes the layout pipeline over HTTP so browser renderers
// can request scenes.
//
// Routes:
//
//	POST /v1/layout   pipeline.Options JSON -> scene JSON
//	GET  /v1/shape    ?text=...            -> parsed shape and default axes
//	GET  /v1/sample   ?size=N&cap=K        -> downsampled indices
//	GET  /v1/version                      -> build information
//	GET  /healthz                         -> "ok"
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tensorcubes/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address of `tensorcubes serve`.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultMaxBoxes caps layouts served over HTTP. Requests may ask for
	// less but never more.
	DefaultMaxBoxes = 250_000

	maxBodyBytes    = 16 << 20
	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	maxBoxes int
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBoxes sets the per-request box limit.
func WithMaxBoxes(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBoxes = n
		}
	}
}

// New builds a server around runner. A nil logger discards logs.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		runner:   runner,
		logger:   logger,
		maxBoxes: DefaultMaxBoxes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Get("/shape", s.handleShape)
		r.Get("/sample", s.handleSample)
		r.Get("/version", s.handleVersion)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, notFound(r))
	})
	return r
}

// Run listens on addr and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully, waiting for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
