// Package knowledge implements the research knowledge base: an
// embedding-backed vector store searched by the research workflow and
// filled by the ingestion command.
package knowledge

import "context"

// Passage is one ranked chunk returned by a search.
type Passage struct {
	ID      string
	Content string
	Source  string
	Score   float32
}

// Document is one chunk to be indexed.
type Document struct {
	ID      string
	Content string
	Source  string
}

// Store is a vector store bound to a single collection.
type Store interface {
	// Name returns the backend identifier.
	Name() string

	// Upsert indexes a document under its pre-computed embedding.
	Upsert(ctx context.Context, doc Document, vector []float32) error

	// Search returns the topK most similar passages to the query vector.
	Search(ctx context.Context, vector []float32, topK int) ([]Passage, error)

	// Close releases resources, persisting first where applicable.
	Close() error
}

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
