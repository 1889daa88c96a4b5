// internal/match/store.go
package match

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gostop/internal/models"
)

// StateStore persists match records. CompareAndSwap must write m only if the
// stored version still equals expected, and report models.ErrVersionMismatch
// otherwise.
type StateStore interface {
	Create(ctx context.Context, m *models.MatchState) error
	Load(ctx context.Context, id uuid.UUID) (*models.MatchState, error)
	CompareAndSwap(ctx context.Context, m *models.MatchState, expected int64) error
}

// MemoryStore keeps matches in process. Records are copied in and out so
// callers never share them.
type MemoryStore struct {
	mu      sync.Mutex
	matches map[uuid.UUID]*models.MatchState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches: make(map[uuid.UUID]*models.MatchState),
	}
}

func (s *MemoryStore) Create(_ context.Context, m *models.MatchState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.MatchID] = m.Clone()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id uuid.UUID) (*models.MatchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, exists := s.matches[id]
	if !exists {
		return nil, models.ErrMatchNotFound
	}
	return m.Clone(), nil
}

func (s *MemoryStore) CompareAndSwap(_ context.Context, m *models.MatchState, expected int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, exists := s.matches[m.MatchID]
	if !exists {
		return models.ErrMatchNotFound
	}
	if cur.Version != expected {
		return models.ErrVersionMismatch
	}
	s.matches[m.MatchID] = m.Clone()
	return nil
}

// Delete drops a match.
func (s *MemoryStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
}
