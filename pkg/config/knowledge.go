package config

import (
	"fmt"
	"os"
)

// Knowledge store backends.
const (
	KnowledgeBackendChromem = "chromem"
	KnowledgeBackendQdrant  = "qdrant"
)

// EmbedderConfig configures the embedding model used by the knowledge
// store for both ingestion and search.
type EmbedderConfig struct {
	Model   string `yaml:"model,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`

	// Dimensions of the embedding vectors. Must match the collection.
	Dimensions int `yaml:"dimensions,omitempty"`
}

func (c *EmbedderConfig) SetDefaults() {
	if c.Model == "" {
		c.Model = "text-embedding-3-small"
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Dimensions == 0 {
		c.Dimensions = 1536
	}
}

// QdrantConfig configures a remote Qdrant backend.
type QdrantConfig struct {
	Host   string `yaml:"host,omitempty"`
	Port   int    `yaml:"port,omitempty"`
	APIKey string `yaml:"api_key,omitempty"`
	UseTLS bool   `yaml:"use_tls,omitempty"`
}

func (c *QdrantConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
}

// KnowledgeConfig configures the research knowledge base.
type KnowledgeConfig struct {
	// Backend selects the vector store: "chromem" (embedded) or "qdrant".
	Backend string `yaml:"backend,omitempty"`

	// Collection is the vector collection name.
	Collection string `yaml:"collection,omitempty"`

	// TopK is the number of chunks returned per search.
	TopK int `yaml:"top_k,omitempty"`

	// Path is the persistence directory for the embedded backend.
	// Empty means in-memory only.
	Path string `yaml:"path,omitempty"`

	Qdrant   QdrantConfig   `yaml:"qdrant,omitempty"`
	Embedder EmbedderConfig `yaml:"embedder,omitempty"`
}

func (c *KnowledgeConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = KnowledgeBackendChromem
	}
	if c.Collection == "" {
		c.Collection = "financial_docs"
	}
	if c.TopK == 0 {
		c.TopK = 3
	}
	c.Qdrant.SetDefaults()
	c.Embedder.SetDefaults()
}

func (c *KnowledgeConfig) Validate() error {
	switch c.Backend {
	case KnowledgeBackendChromem, KnowledgeBackendQdrant:
	default:
		return fmt.Errorf("unsupported knowledge backend: %q", c.Backend)
	}
	if c.TopK < 1 {
		return fmt.Errorf("knowledge top_k must be positive, got %d", c.TopK)
	}
	return nil
}
