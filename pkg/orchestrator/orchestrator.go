// Package orchestrator is the request entry point: it classifies and
// extracts from the raw query, then dispatches to the composer.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nutnell/marketminds/pkg/extraction"
	"github.com/nutnell/marketminds/pkg/routing"
)

// Extractor derives structured entities from raw text.
type Extractor interface {
	Extract(ctx context.Context, rawText string) (*extraction.Entities, error)
}

// Router classifies raw text onto a route label.
type Router interface {
	Route(ctx context.Context, rawText string) (routing.RouteLabel, error)
}

// Composer runs the workflow set for a route and joins the outputs.
type Composer interface {
	Compose(ctx context.Context, route routing.RouteLabel, entities extraction.Entities, rawText string) string
}

// Observer is notified once per answered request. Used to wire metrics
// without coupling the orchestrator to a metrics backend.
type Observer func(route routing.RouteLabel)

// Orchestrator owns one request's entities and route for the duration
// of the request; nothing outlives the Answer call.
type Orchestrator struct {
	extractor Extractor
	router    Router
	composer  Composer
	observer  Observer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver registers a per-request observer.
func WithObserver(observer Observer) Option {
	return func(o *Orchestrator) {
		o.observer = observer
	}
}

// New builds an Orchestrator over the given components.
func New(extractor Extractor, router Router, composer Composer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		extractor: extractor,
		router:    router,
		composer:  composer,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Answer serves one query. Extraction and routing run concurrently over
// the same raw text; either failing is fatal for the request. The
// session key is an opaque partition key, logged but never inspected.
func (o *Orchestrator) Answer(ctx context.Context, rawText, sessionKey string) (string, error) {
	var (
		entities *extraction.Entities
		route    routing.RouteLabel
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entities, err = o.extractor.Extract(gctx, rawText)
		if err != nil {
			return fmt.Errorf("entity extraction failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		route, err = o.router.Route(gctx, rawText)
		if err != nil {
			return fmt.Errorf("query routing failed: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	slog.Info("routed query", "route", route, "session", sessionKey)
	if o.observer != nil {
		o.observer(route)
	}

	return o.composer.Compose(ctx, route, *entities, rawText), nil
}
