// Package server exposes the routing pipeline over HTTP.
//
// # Endpoints
//
//	GET    /healthz                 liveness and build information
//	POST   /v1/route                route a channel, store the run, return the graph
//	POST   /v1/render/{format}      route and render in one call (txt, json, dot, svg, png, pdf)
//	GET    /v1/routes               list stored runs, newest first
//	GET    /v1/routes/{id}          fetch one stored run
//	DELETE /v1/routes/{id}          delete a stored run
//
// Request bodies are [pipeline.Options] in JSON. Errors are returned as
// {"error": {"code": ..., "message": ...}} with a status derived from the
// error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chanroute/pkg/pipeline"
	"github.com/matzehuels/chanroute/pkg/store"
)

// Defaults for Config.
const (
	DefaultAddr            = ":8080"
	DefaultRequestTimeout  = 60 * time.Second
	DefaultMaxBodyBytes    = 1 << 20
	DefaultMaxTries        = 20
	DefaultMaxLengthFactor = 4.0
	shutdownTimeout        = 10 * time.Second
)

// Config configures the HTTP server. MaxTries and MaxLengthFactor bound the
// retry budget and the column cutoff a single request may ask for.
type Config struct {
	Addr            string        `toml:"addr"`
	RequestTimeout  time.Duration `toml:"request_timeout"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
	MaxTries        int           `toml:"max_tries"`
	MaxLengthFactor float64       `toml:"max_length_factor"`
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.MaxTries <= 0 {
		c.MaxTries = DefaultMaxTries
	}
	if c.MaxLengthFactor <= 0 {
		c.MaxLengthFactor = DefaultMaxLengthFactor
	}
}

// Server serves the HTTP API. The store is optional; without one, routing
// still works but runs are not kept and the /v1/routes endpoints report
// UNSUPPORTED.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	cfg    Config
	router chi.Router
}

// New builds a server around runner. st may be nil.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	cfg.SetDefaults()
	s := &Server{
		runner: runner,
		store:  st,
		logger: logger.WithPrefix("server"),
		cfg:    cfg,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/route", s.handleRoute)
		r.Post("/render/{format}", s.handleRender)
		r.Get("/routes", s.handleListRoutes)
		r.Get("/routes/{id}", s.handleGetRoute)
		r.Delete("/routes/{id}", s.handleDeleteRoute)
	})
	return r
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
