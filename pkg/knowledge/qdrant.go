package knowledge

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore is the remote vector store backend, for deployments that
// outgrow the embedded one.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	dimensions int

	mu      sync.Mutex
	created bool
}

// QdrantConfig configures the remote store.
type QdrantConfig struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string

	// Dimensions of the embedding vectors, used when the collection
	// must be created.
	Dimensions int
}

// NewQdrantStore connects to a Qdrant server.
func NewQdrantStore(cfg QdrantConfig) (*QdrantStore, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client for %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return &QdrantStore{
		client:     client,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
	}, nil
}

func (s *QdrantStore) Name() string {
	return "qdrant"
}

func (s *QdrantStore) ensureCollection(ctx context.Context, vectorSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.created {
		return nil
	}

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if !exists {
		err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("failed to create collection: %w", err)
		}
	}

	s.created = true
	return nil
}

func (s *QdrantStore) Upsert(ctx context.Context, doc Document, vector []float32) error {
	if err := s.ensureCollection(ctx, len(vector)); err != nil {
		return err
	}

	payload := map[string]*qdrant.Value{
		"content": qdrant.NewValueString(doc.Content),
		"source":  qdrant.NewValueString(doc.Source),
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(doc.ID),
		Vectors: qdrant.NewVectors(vector...),
		Payload: payload,
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, vector []float32, topK int) ([]Passage, error) {
	searchRequest := &qdrant.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload:    qdrant.NewWithPayload(true),
	}

	searchResult, err := s.client.GetPointsClient().Search(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return convertScoredPoints(searchResult.Result), nil
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}

func convertScoredPoints(points []*qdrant.ScoredPoint) []Passage {
	passages := make([]Passage, 0, len(points))

	for _, point := range points {
		var id string
		if point.Id != nil {
			switch idType := point.Id.PointIdOptions.(type) {
			case *qdrant.PointId_Uuid:
				id = idType.Uuid
			case *qdrant.PointId_Num:
				id = fmt.Sprintf("%d", idType.Num)
			}
		}

		passage := Passage{ID: id, Score: point.Score}
		if point.Payload != nil {
			if v, ok := point.Payload["content"]; ok {
				passage.Content = v.GetStringValue()
			}
			if v, ok := point.Payload["source"]; ok {
				passage.Source = v.GetStringValue()
			}
		}
		passages = append(passages, passage)
	}

	return passages
}

var _ Store = (*QdrantStore)(nil)
