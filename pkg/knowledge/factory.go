package knowledge

import (
	"fmt"

	"github.com/nutnell/marketminds/pkg/config"
)

// NewStoreFromConfig builds the configured vector store backend.
func NewStoreFromConfig(cfg *config.KnowledgeConfig) (Store, error) {
	switch cfg.Backend {
	case config.KnowledgeBackendChromem:
		return NewChromemStore(ChromemConfig{
			Collection:  cfg.Collection,
			PersistPath: cfg.Path,
		})
	case config.KnowledgeBackendQdrant:
		return NewQdrantStore(QdrantConfig{
			Host:       cfg.Qdrant.Host,
			Port:       cfg.Qdrant.Port,
			APIKey:     cfg.Qdrant.APIKey,
			UseTLS:     cfg.Qdrant.UseTLS,
			Collection: cfg.Collection,
			Dimensions: cfg.Embedder.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unsupported knowledge backend: %q", cfg.Backend)
	}
}
