// Package httpapi exposes the verification service over HTTP: one verify
// endpoint per registered verifier, the verifier listing, a health probe, and
// the Prometheus scrape endpoint. The layer stays thin; request validation
// and execution live in the dispatch service.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/debatelab/argdown-feedback-sub001/internal/dispatch"
	"github.com/debatelab/argdown-feedback-sub001/internal/logger"
)

// ServiceName identifies this service in health responses.
const ServiceName = "argdown-feedback"

const shutdownGrace = 10 * time.Second

// Server routes verification requests to the dispatch service.
type Server struct {
	svc     *dispatch.Service
	log     *logger.Logger
	version string
	router  chi.Router
}

// NewServer assembles the router around the dispatch service. The version
// string is reported by the health endpoint.
func NewServer(svc *dispatch.Service, log *logger.Logger, version string) *Server {
	s := &Server{
		svc:     svc,
		log:     log.WithComponent("httpapi"),
		version: version,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logRequests(s.log))
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/verify/{verifierName}", s.handleVerify)
		r.Get("/verifiers", s.handleListVerifiers)
		r.Get("/verifiers/{verifierName}", s.handleVerifierInfo)
	})
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
		svc.Metrics().Gatherer(), promhttp.HandlerOpts{},
	))

	s.router = r
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is canceled, then drains in-flight requests
// within the shutdown grace period.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()
	s.log.WithFields(map[string]any{"addr": addr}).Info("http server listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}
