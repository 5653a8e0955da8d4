// Package server exposes the engine over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr string
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New registers every route. A nil gatherer disables /metrics.
func New(cfg Config, eng Engine, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      Handler(eng, gatherer, logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Handler builds the routed, middleware-wrapped handler.
func Handler(eng Engine, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	h := &handlers{engine: eng, logger: logger}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.health)
	mux.HandleFunc("GET /api/data", h.data)

	// Candidates.
	mux.HandleFunc("GET /api/prediction", h.prediction)
	mux.HandleFunc("GET /api/candidate", h.candidate)

	// Backtest analytics.
	mux.HandleFunc("GET /api/summary", h.summary)
	mux.HandleFunc("GET /api/latest", h.latest)
	mux.HandleFunc("GET /api/streak/current", h.currentStreak)
	mux.HandleFunc("GET /api/streak/breakdown", h.breakdown)
	mux.HandleFunc("GET /api/analysis/recent", h.recent)
	mux.HandleFunc("GET /api/tune", h.tune)

	// Data source control.
	mux.HandleFunc("GET /api/refreshes", h.refreshes)
	mux.HandleFunc("POST /api/refresh", h.refresh)
	mux.HandleFunc("PUT /api/source", h.setSource)
	mux.HandleFunc("DELETE /api/source", h.resetSource)

	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	var handler http.Handler = mux
	handler = recoverer(logger)(handler)
	handler = logging(logger)(handler)
	return handler
}

// Start listens until the server fails or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
