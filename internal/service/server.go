// SPDX-License-Identifier: MIT

// Package service implements the HTTP gateway: device catalog, job
// submission and tracking, and program transpilation over REST.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/qbraid/qbraid-go/internal/cache"
	"github.com/qbraid/qbraid-go/internal/config"
	"github.com/qbraid/qbraid-go/internal/log"
	"github.com/qbraid/qbraid-go/internal/runtime"
	"github.com/qbraid/qbraid-go/internal/store"
	"github.com/qbraid/qbraid-go/internal/transpiler"
)

// Server is the HTTP gateway.
type Server struct {
	cfg       config.Config
	providers map[string]runtime.Provider
	graph     *transpiler.Graph
	history   *store.History
	devCache  cache.Cache
	logger    zerolog.Logger
	http      *http.Server
}

// Deps carries the server's collaborators.
type Deps struct {
	Config    config.Config
	Providers []runtime.Provider
	Graph     *transpiler.Graph
	History   *store.History
	Cache     cache.Cache
}

// New builds a gateway server. A nil graph falls back to the default
// conversion graph; a nil cache disables catalog caching.
func New(deps Deps) *Server {
	graph := deps.Graph
	if graph == nil {
		graph = transpiler.Default()
	}
	devCache := deps.Cache
	if devCache == nil {
		devCache = cache.NewNoOp()
	}
	providers := make(map[string]runtime.Provider, len(deps.Providers))
	for _, p := range deps.Providers {
		providers[p.Name()] = p
	}

	s := &Server{
		cfg:       deps.Config,
		providers: providers,
		graph:     graph,
		history:   deps.History,
		devCache:  devCache,
		logger:    log.WithComponent("service"),
	}
	s.http = &http.Server{
		Addr:              deps.Config.Listen,
		Handler:           otelhttp.NewHandler(s.Router(), "qbraid-gateway"),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Router assembles the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(httpMetrics)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(s.cfg.RateLimitRPS))

		r.Get("/devices", s.handleListDevices)
		r.Get("/devices/{id}", s.handleGetDevice)

		r.Post("/jobs", s.handleCreateJob)
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Delete("/jobs/{id}", s.handleCancelJob)

		r.Post("/transpile", s.handleTranspile)
	})

	return r
}

// Start serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("listen", s.http.Addr).Msg("gateway listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("gateway: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("gateway shutdown: %w", err)
	}
	s.logger.Info().Msg("gateway stopped")
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports ready once at least one provider is wired.
func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if len(s.providers) == 0 {
		writeError(w, http.StatusServiceUnavailable, "not_ready", "no providers configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
