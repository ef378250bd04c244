// Package server exposes the HTTP API: authentication, the query
// endpoint, the internal news endpoint, and operational routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nutnell/marketminds/pkg/auth"
	"github.com/nutnell/marketminds/pkg/config"
	"github.com/nutnell/marketminds/pkg/observability"
	"github.com/nutnell/marketminds/pkg/providers"
	"github.com/nutnell/marketminds/pkg/session"
)

// Orchestrator answers one query for one session key.
type Orchestrator interface {
	Answer(ctx context.Context, rawText, sessionKey string) (string, error)
}

// Dependencies carries the wired components. Tokens and Users may be
// nil when auth is disabled; Sessions and Metrics are optional.
type Dependencies struct {
	Orchestrator Orchestrator
	Tokens       *auth.TokenService
	Users        *auth.UserStore
	Sessions     session.Service
	NewsChain    *providers.Chain
	Metrics      *observability.Metrics
}

// Server is the HTTP API server.
type Server struct {
	cfg    *config.ServerConfig
	deps   Dependencies
	router chi.Router
	http   *http.Server
}

// New builds the server and mounts all routes.
func New(cfg *config.ServerConfig, deps Dependencies) *Server {
	s := &Server{cfg: cfg, deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.HTTPMiddleware)
	}

	r.Get("/healthz", s.handleHealth)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	if deps.Tokens != nil && deps.Users != nil {
		r.Post("/token", s.handleToken)
		r.Post("/signup", s.handleSignup)
	}

	queryHandler := http.HandlerFunc(s.handleQuery)
	if deps.Tokens != nil {
		r.Method(http.MethodPost, "/v1/query", deps.Tokens.HTTPMiddleware(queryHandler))
	} else {
		r.Method(http.MethodPost, "/v1/query", queryHandler)
	}

	if deps.NewsChain != nil {
		r.Get("/internal/news/{query}", s.handleInternalNews)
	}

	s.router = r
	s.http = &http.Server{
		Addr:              cfg.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the route tree, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the context is canceled, then shuts down within
// the configured window.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "address", s.cfg.Address())
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(s.cfg.ShutdownTimeout)*time.Second)
	defer cancel()

	slog.Info("shutting down http server")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
