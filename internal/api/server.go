// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api exposes the aggregated schedule over HTTP.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/tvschedule/internal/api/middleware"
	"github.com/ManuGH/tvschedule/internal/health"
	"github.com/ManuGH/tvschedule/internal/log"
	"github.com/ManuGH/tvschedule/internal/schedule"
)

// Scheduler produces the normalized schedule for a day. It never fails.
type Scheduler interface {
	Aggregate(ctx context.Context, date time.Time, tag string) []schedule.Group
}

// Config configures the HTTP API.
type Config struct {
	// DefaultSource is used when a request does not name a source.
	DefaultSource string
	// Location resolves "today" and parses the date parameter.
	Location *time.Location
	// RateLimit is the per-IP request budget per minute; zero disables limiting.
	RateLimit      int
	TracingService string
	Version        string
	// Health backs /healthz and /readyz; nil means no registered checks.
	Health *health.Manager
	// Now is overridable in tests.
	Now func() time.Time
}

// Server serves the schedule API.
type Server struct {
	cfg       Config
	scheduler Scheduler
	router    chi.Router
}

// New wires the routes and middleware stack.
func New(scheduler Scheduler, cfg Config) *Server {
	if cfg.Location == nil {
		cfg.Location = time.FixedZone("KST", 9*60*60)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Health == nil {
		cfg.Health = health.NewManager(cfg.Version)
	}
	s := &Server{cfg: cfg, scheduler: scheduler}

	r := middleware.NewRouter(middleware.StackConfig{
		TracingService: cfg.TracingService,
		EnableMetrics:  true,
		EnableLogging:  true,
	})
	r.Get("/healthz", cfg.Health.ServeHealth)
	r.Get("/readyz", cfg.Health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(middleware.PerMinute(cfg.RateLimit))
		}
		r.Get("/schedule", s.handleSchedule)
		r.Get("/sources", s.handleSources)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { writeNotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger := log.WithComponent("api")
		logger.Info().
			Str(log.FieldEvent, "server.listening").
			Str("addr", addr).
			Msg("schedule API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
