package record

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemStore is an in-memory Store, used when no persistent record module
// is configured and in tests.
type MemStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// Compile-time check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string]Record)}
}

// Create stores a record. The ID must be set by the caller.
func (s *MemStore) Create(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r
	return nil
}

// Get returns the record with the given ID, or ErrNotFound.
func (s *MemStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, nil
}

// List returns all records, newest first.
func (s *MemStore) List(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Delete removes the record with the given ID, or returns ErrNotFound.
func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.records, id)
	return nil
}
