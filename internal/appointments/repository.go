package appointments

import (
	"context"
	"sort"
	"sync"
)

// Store abstracts appointment persistence. Every call is scoped to the
// authenticated practitioner; rows owned by anyone else are invisible.
type Store interface {
	ListByOwner(ctx context.Context, ownerID string) ([]Appointment, error)
	GetByID(ctx context.Context, ownerID, id string) (*Appointment, error)
	Upsert(ctx context.Context, ownerID string, a Appointment) error
	UpsertBatch(ctx context.Context, ownerID string, batch []Appointment) error
	Delete(ctx context.Context, ownerID, id string) error
}

// InMemoryStore keeps appointments in a map. Used by tests and local
// development without a database.
type InMemoryStore struct {
	mu    sync.RWMutex
	rows  map[string]Appointment
	owner map[string]string
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		rows:  make(map[string]Appointment),
		owner: make(map[string]string),
	}
}

// ListByOwner returns the owner's appointments ordered by date then start time.
func (s *InMemoryStore) ListByOwner(ctx context.Context, ownerID string) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Appointment
	for id, a := range s.rows {
		if s.owner[id] == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

// GetByID returns one appointment or ErrNotFound.
func (s *InMemoryStore) GetByID(ctx context.Context, ownerID, id string) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.rows[id]
	if !ok || s.owner[id] != ownerID {
		return nil, ErrNotFound
	}
	return &a, nil
}

// Upsert inserts or replaces a row.
func (s *InMemoryStore) Upsert(ctx context.Context, ownerID string, a Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[a.ID] = a
	s.owner[a.ID] = ownerID
	return nil
}

// UpsertBatch inserts or replaces all rows as one call. There is no
// rollback on partial failure; the in-memory variant cannot fail halfway
// anyway.
func (s *InMemoryStore) UpsertBatch(ctx context.Context, ownerID string, batch []Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range batch {
		s.rows[a.ID] = a
		s.owner[a.ID] = ownerID
	}
	return nil
}

// Delete removes one row; missing rows surface ErrNotFound.
func (s *InMemoryStore) Delete(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok || s.owner[id] != ownerID {
		return ErrNotFound
	}
	delete(s.rows, id)
	delete(s.owner, id)
	return nil
}
