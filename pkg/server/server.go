// Package server exposes page analysis over HTTP.
//
// # Endpoints
//
//	GET  /healthz                       liveness and build information
//	POST /v1/order                      reading order of a page
//	POST /v1/articles                   articles of a page
//	POST /v1/analyze                    full analysis, cached and persisted
//	GET  /v1/analyses/{runID}           a persisted analysis
//	GET  /v1/pages/{pageID}/latest      the newest analysis of a page
//
// POST bodies carry the page in any supported input format plus optional
// analysis options:
//
//	{"format": "labelstudio", "page": [...], "options": {"min_gap": 2}}
//
// Errors are JSON objects {"error": {"code": "...", "message": "..."}}.
// Validation failures map to 400, unknown runs and pages to 404.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/zonecut/pkg/pipeline"
)

// Server defaults.
const (
	DefaultAddr        = ":8080"
	DefaultMaxBodySize = 16 << 20
	DefaultTimeout     = 60 * time.Second
	shutdownTimeout    = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr        string        `toml:"addr"`
	MaxBodySize int64         `toml:"max_body_size"`
	Timeout     time.Duration `toml:"timeout"`
}

// Server serves the analysis API.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
	router   chi.Router
}

// New returns a server analyzing with runner. defaults are the options a
// request starts from before its own options are applied.
func New(runner *pipeline.Runner, defaults pipeline.Options, cfg Config, logger *log.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	defaults.Logger = nil
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		defaults: defaults,
		logger:   logger.WithPrefix("http"),
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
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequestSize(s.cfg.MaxBodySize))
			r.Use(middleware.AllowContentType("application/json", "application/yaml", "application/x-yaml", "text/yaml"))
			r.Post("/order", s.handleOrder)
			r.Post("/articles", s.handleArticles)
			r.Post("/analyze", s.handleAnalyze)
		})
		r.Get("/analyses/{runID}", s.handleGetAnalysis)
		r.Get("/pages/{pageID}/latest", s.handleLatest)
	})
	return r
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
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
