package round

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/kopeyka/casino/pkg/entities"
)

// MemoryStore implements Store with in-memory storage
type MemoryStore struct {
	mu     sync.RWMutex
	rounds map[string][]byte
}

// NewMemoryStore creates a new in-memory round store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rounds: make(map[string][]byte),
	}
}

// GetRound retrieves a user's round, or nil when none is in progress
func (s *MemoryStore) GetRound(ctx context.Context, userID string) (*entities.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.rounds[userID]
	if !exists {
		return nil, nil
	}

	var r entities.Round
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// PutRound stores a user's round, replacing any previous one. Rounds are
// stored serialized so callers can keep mutating their copy safely.
func (s *MemoryStore) PutRound(ctx context.Context, userID string, r *entities.Round) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[userID] = data
	return nil
}

// ClearRound discards a user's round if present
func (s *MemoryStore) ClearRound(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rounds, userID)
	return nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}
