package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/nutnell/marketminds/pkg/providers"
)

const passageSeparator = "\n\n---\n\n"

// SearchAdapter exposes the knowledge base as a provider adapter for
// the research capability chain.
type SearchAdapter struct {
	store    Store
	embedder Embedder
	topK     int
}

// NewSearchAdapter builds the research adapter.
func NewSearchAdapter(store Store, embedder Embedder, topK int) *SearchAdapter {
	if topK <= 0 {
		topK = 3
	}
	return &SearchAdapter{store: store, embedder: embedder, topK: topK}
}

func (a *SearchAdapter) Name() string {
	return "knowledge-base"
}

func (a *SearchAdapter) Invoke(ctx context.Context, params providers.Params) providers.Result {
	query := params.ResearchQuery
	if query == "" {
		return providers.Failure("knowledge base search requires a research query")
	}

	vector, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return providers.Failuref("error searching knowledge base: %v", err)
	}

	passages, err := a.store.Search(ctx, vector, a.topK)
	if err != nil {
		return providers.Failuref("error searching knowledge base: %v", err)
	}

	if len(passages) == 0 {
		return providers.Success("No relevant information found in the knowledge base for that query.")
	}

	formatted := make([]string, 0, len(passages))
	for _, p := range passages {
		source := p.Source
		if source == "" {
			source = "N/A"
		}
		formatted = append(formatted, fmt.Sprintf("Source: %s\nContent: %s", source, p.Content))
	}

	return providers.Success(strings.Join(formatted, passageSeparator))
}

var _ providers.Adapter = (*SearchAdapter)(nil)
