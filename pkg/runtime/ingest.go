package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nutnell/marketminds/pkg/config"
	"github.com/nutnell/marketminds/pkg/knowledge"
)

// Ingest indexes every document under dir into the configured
// knowledge store. Returns the number of chunks indexed.
func Ingest(ctx context.Context, cfg *config.Config, dir string) (int, error) {
	store, err := knowledge.NewStoreFromConfig(&cfg.Knowledge)
	if err != nil {
		return 0, fmt.Errorf("failed to open knowledge store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("failed to close knowledge store", "error", err)
		}
	}()

	embedder, err := knowledge.NewOpenAIEmbedder(knowledge.OpenAIEmbedderConfig{
		APIKey:     cfg.Knowledge.Embedder.APIKey,
		Model:      cfg.Knowledge.Embedder.Model,
		BaseURL:    cfg.Knowledge.Embedder.BaseURL,
		Dimensions: cfg.Knowledge.Embedder.Dimensions,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to build embedder: %w", err)
	}

	return knowledge.NewIngestor(store, embedder).IngestDir(ctx, dir)
}
