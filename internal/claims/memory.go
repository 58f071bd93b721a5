package claims

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps claims in insertion order in process memory. It backs tests
// and the "memory" store driver.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	records map[string]Record
}

// NewMemoryStore creates a store seeded with recs, in order.
func NewMemoryStore(recs ...Record) *MemoryStore {
	s := &MemoryStore{records: make(map[string]Record, len(recs))}
	for _, r := range recs {
		s.put(r)
	}
	return s
}

// List returns a deep copy of all records in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Clone())
	}
	return out, nil
}

// Get returns a copy of the record with the given id.
func (s *MemoryStore) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return Record{}, false
	}
	return r.Clone(), true
}

// Put inserts rec or replaces the record with the same id, keeping its position.
func (s *MemoryStore) Put(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.ID == "" {
		return fmt.Errorf("claim id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(rec)
	return nil
}

func (s *MemoryStore) put(rec Record) {
	if _, exists := s.records[rec.ID]; !exists {
		s.order = append(s.order, rec.ID)
	}
	s.records[rec.ID] = rec.Clone()
}

// SetStatus applies a lifecycle change.
func (s *MemoryStore) SetStatus(ctx context.Context, id string, status Status, date string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := CheckTransition(id, rec.Status, status); err != nil {
		return err
	}
	rec.Status = status
	if date != "" {
		rec.Date = date
	}
	s.records[id] = rec
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
