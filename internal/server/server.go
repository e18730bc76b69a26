// Package server hosts the Theme API: operational probes, the middleware
// stack and whatever component routes are mounted on it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// RouteRegistrar mounts a component's routes.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Server is the Theme API HTTP server.
type Server struct {
	http   *http.Server
	mux    *http.ServeMux
	ready  ReadinessChecker
	logger *zap.Logger
}

// operationalPaths skip rate limiting and request logging.
var operationalPaths = []string{"/healthz", "/readyz", "/metrics"}

// New builds a server with probes, the given component routes and the
// middleware stack selected by cfg. devMode mounts Swagger UI at /swagger/.
func New(cfg Config, logger *zap.Logger, ready ReadinessChecker, devMode bool, routes ...RouteRegistrar) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		ready:  ready,
		logger: logger,
	}

	s.mountProbes()
	for _, r := range routes {
		r.RegisterRoutes(s.mux)
	}
	if devMode {
		s.mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
		logger.Info("swagger UI mounted", zap.String("path", "/swagger/"))
	}
	s.mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		NotFound(w, "no such endpoint", r.URL.Path)
	})

	s.http = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      Chain(s.mux, stack(cfg, logger)...),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  time.Minute,
	}
	return s
}

// stack lists the middleware for cfg, outermost first.
func stack(cfg Config, logger *zap.Logger) []Middleware {
	mw := []Middleware{
		RecoveryMiddleware(logger),
		RequestIDMiddleware,
		LoggingMiddleware(logger, operationalPaths),
		SecurityHeadersMiddleware,
		VersionHeaderMiddleware,
	}
	if cfg.RateLimitRPS > 0 {
		mw = append(mw, RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, operationalPaths))
	}
	if cfg.ReadOnly {
		logger.Info("read-only mode: mutating requests are refused")
		mw = append(mw, ReadOnlyMiddleware)
	}
	return mw
}

// Handler returns the mux wrapped in the middleware stack.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("listening", zap.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("serve %s: %w", s.http.Addr, err)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("draining HTTP server")
	return s.http.Shutdown(ctx)
}
