package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/hawkeye-rf/emflow/pkg/domain"
)

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.RunRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory run store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.RunRecord),
	}
}

// Save persists a copy of the record.
func (s *Store) Save(ctx context.Context, rec *domain.RunRecord) error {
	copied := cloneRecord(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.ID] = copied
	return nil
}

// Load returns a copy so callers cannot mutate the stored record.
func (s *Store) Load(ctx context.Context, runID string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return cloneRecord(rec), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

// List returns stored run IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func cloneRecord(rec *domain.RunRecord) *domain.RunRecord {
	out := *rec
	out.Stages = slices.Clone(rec.Stages)
	out.Artifacts = slices.Clone(rec.Artifacts)
	out.Warnings = slices.Clone(rec.Warnings)
	return &out
}
