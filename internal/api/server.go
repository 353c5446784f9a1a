// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api provides the admin HTTP API of fluxiond: health, metrics,
// readiness, registry introspection and action publishing.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/fluxion/internal/api/middleware"
	"github.com/ManuGH/fluxion/internal/dispatcher"
	"github.com/ManuGH/fluxion/internal/health"
	xglog "github.com/ManuGH/fluxion/internal/log"
)

// maxActionBody caps POST /api/v1/actions request bodies.
const maxActionBody = 1 << 20

// Config configures the API router.
type Config struct {
	// RateLimit is the number of publishes allowed per RateWindow and client IP.
	RateLimit  int
	RateWindow time.Duration
	// TracingService names the HTTP tracer; empty disables request spans.
	TracingService string
	Version        string
}

// Server serves the admin API on top of a dispatcher.
type Server struct {
	cfg        Config
	dispatcher *dispatcher.Dispatcher
	health     *health.Manager
	logger     zerolog.Logger
	router     chi.Router
}

// New creates the API server and builds its router.
func New(d *dispatcher.Dispatcher, cfg Config) *Server {
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}
	s := &Server{
		cfg:        cfg,
		dispatcher: d,
		health:     health.NewManager(cfg.Version),
		logger:     xglog.WithComponent("api"),
	}
	s.health.RegisterChecker(health.NewBusChecker(d))
	s.router = s.routes()
	return s
}

// HealthManager returns the manager behind /healthz and /readyz so callers
// can register further checks.
func (s *Server) HealthManager() *health.Manager {
	return s.health
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        s.cfg.TracingService,
		EnableLogging:         true,
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/registry", s.handleRegistry)
		r.With(middleware.RateLimit(middleware.RateLimitConfig{
			RequestLimit: s.cfg.RateLimit,
			WindowSize:   s.cfg.RateWindow,
		})).Post("/actions", s.handlePublishAction)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}
