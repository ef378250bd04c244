// Package session tracks per-user exchange history. The partition key
// is opaque; callers pass the authenticated identity and the store
// never inspects its structure.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// defaultMaxHistory bounds the exchanges kept per key; the oldest are
// dropped first.
const defaultMaxHistory = 50

// Exchange is one answered query.
type Exchange struct {
	ID     string
	Query  string
	Answer string
	At     time.Time
}

// Service manages per-key exchange history.
type Service interface {
	// Record appends an exchange under the key.
	Record(ctx context.Context, key, query, answer string) (Exchange, error)

	// History returns the most recent exchanges for the key, oldest
	// first. A non-positive limit returns all retained exchanges.
	History(ctx context.Context, key string, limit int) ([]Exchange, error)

	// Clear drops all exchanges for the key.
	Clear(ctx context.Context, key string) error
}

// InMemoryService is the default Service. Safe for concurrent use.
type InMemoryService struct {
	mu         sync.RWMutex
	exchanges  map[string][]Exchange
	maxHistory int
}

// Option configures an InMemoryService.
type Option func(*InMemoryService)

// WithMaxHistory overrides the per-key retention cap.
func WithMaxHistory(n int) Option {
	return func(s *InMemoryService) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

// NewInMemoryService creates an empty session store.
func NewInMemoryService(opts ...Option) *InMemoryService {
	s := &InMemoryService{
		exchanges:  make(map[string][]Exchange),
		maxHistory: defaultMaxHistory,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryService) Record(ctx context.Context, key, query, answer string) (Exchange, error) {
	exchange := Exchange{
		ID:     uuid.NewString(),
		Query:  query,
		Answer: answer,
		At:     time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.exchanges[key], exchange)
	if len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}
	s.exchanges[key] = history

	return exchange, nil
}

func (s *InMemoryService) History(ctx context.Context, key string, limit int) ([]Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.exchanges[key]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	out := make([]Exchange, len(history))
	copy(out, history)
	return out, nil
}

func (s *InMemoryService) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.exchanges, key)
	return nil
}

var _ Service = (*InMemoryService)(nil)
