package providers

import (
	"context"
	"log/slog"
)

// Observer is notified after every adapter attempt. Used to wire
// metrics without coupling chains to a metrics backend.
type Observer func(chain, provider string, failed bool)

// Chain is an ordered list of adapters offering the same capability.
// Rank order is fixed at construction and never reordered at runtime.
type Chain struct {
	name     string
	adapters []Adapter
	observer Observer
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithObserver registers an attempt observer.
func WithObserver(observer Observer) ChainOption {
	return func(c *Chain) {
		c.observer = observer
	}
}

// NewChain builds a chain over the given adapters in rank order.
func NewChain(name string, adapters []Adapter, opts ...ChainOption) *Chain {
	c := &Chain{name: name, adapters: adapters}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies the chain in logs and metrics.
func (c *Chain) Name() string {
	return c.name
}

// Invoke tries each adapter in rank order and returns the first
// success. If every adapter fails, the last adapter's failure is
// returned verbatim; a chain never produces an error.
func (c *Chain) Invoke(ctx context.Context, params Params) Result {
	if len(c.adapters) == 0 {
		return Failuref("no providers configured for %s", c.name)
	}

	var last Result
	for _, adapter := range c.adapters {
		last = adapter.Invoke(ctx, params)
		if c.observer != nil {
			c.observer(c.name, adapter.Name(), last.Failed())
		}
		if !last.Failed() {
			return last
		}
		slog.Warn("provider failed, falling back",
			"chain", c.name,
			"provider", adapter.Name(),
			"detail", last.FailureDetail())
	}

	slog.Error("all providers exhausted", "chain", c.name)
	return last
}
