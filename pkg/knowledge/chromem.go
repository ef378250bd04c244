package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"
)

// ChromemStore is the embedded vector store. Pure Go, in-memory, with
// optional gob persistence; the zero-config default backend.
type ChromemStore struct {
	db          *chromem.DB
	collection  string
	persistPath string
	mu          sync.Mutex
	col         *chromem.Collection
}

// ChromemConfig configures the embedded store.
type ChromemConfig struct {
	// Collection is the collection name.
	Collection string

	// PersistPath is the persistence directory. Empty means in-memory.
	PersistPath string
}

// NewChromemStore opens or creates the embedded store.
func NewChromemStore(cfg ChromemConfig) (*ChromemStore, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	var db *chromem.DB
	if cfg.PersistPath != "" {
		if err := os.MkdirAll(cfg.PersistPath, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create persist directory: %w", err)
		}

		dbPath := filepath.Join(cfg.PersistPath, "vectors.gob")
		if _, statErr := os.Stat(dbPath); statErr == nil {
			db = chromem.NewDB()
			if err := db.ImportFromFile(dbPath, ""); err != nil {
				slog.Warn("failed to load existing vector database, creating new",
					"path", dbPath, "error", err)
				db = chromem.NewDB()
			} else {
				slog.Info("loaded vector database", "path", dbPath)
			}
		} else {
			db = chromem.NewDB()
			slog.Info("created new vector database", "path", dbPath)
		}
	} else {
		db = chromem.NewDB()
		slog.Info("created in-memory vector database")
	}

	return &ChromemStore{
		db:          db,
		collection:  cfg.Collection,
		persistPath: cfg.PersistPath,
	}, nil
}

func (s *ChromemStore) Name() string {
	return "chromem"
}

// identityEmbed satisfies chromem's embedding hook; vectors are always
// pre-computed by the embedder.
func identityEmbed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embedding function called but vectors are pre-computed")
}

func (s *ChromemStore) getCollection() (*chromem.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.col != nil {
		return s.col, nil
	}

	col, err := s.db.GetOrCreateCollection(s.collection, nil, identityEmbed)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %q: %w", s.collection, err)
	}
	s.col = col
	return col, nil
}

func (s *ChromemStore) Upsert(ctx context.Context, doc Document, vector []float32) error {
	col, err := s.getCollection()
	if err != nil {
		return err
	}

	chromemDoc := chromem.Document{
		ID:        doc.ID,
		Content:   doc.Content,
		Metadata:  map[string]string{"source": doc.Source},
		Embedding: vector,
	}

	if err := col.AddDocuments(ctx, []chromem.Document{chromemDoc}, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	if err := s.persist(); err != nil {
		slog.Warn("failed to persist after upsert", "error", err)
	}
	return nil
}

func (s *ChromemStore) Search(ctx context.Context, vector []float32, topK int) ([]Passage, error) {
	col, err := s.getCollection()
	if err != nil {
		return nil, err
	}

	// chromem returns an error when topK exceeds the document count.
	if count := col.Count(); count < topK {
		topK = count
	}
	if topK == 0 {
		return nil, nil
	}

	results, err := col.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	passages := make([]Passage, 0, len(results))
	for _, r := range results {
		passages = append(passages, Passage{
			ID:      r.ID,
			Content: r.Content,
			Source:  r.Metadata["source"],
			Score:   r.Similarity,
		})
	}
	return passages, nil
}

func (s *ChromemStore) Close() error {
	return s.persist()
}

func (s *ChromemStore) persist() error {
	if s.persistPath == "" {
		return nil
	}

	dbPath := filepath.Join(s.persistPath, "vectors.gob")
	//nolint:staticcheck // Export remains the stable persistence entry point.
	if err := s.db.Export(dbPath, false, ""); err != nil {
		return fmt.Errorf("failed to persist database: %w", err)
	}
	return nil
}

var _ Store = (*ChromemStore)(nil)
