package patients

import (
	"context"
	"sort"
	"sync"
)

// Store abstracts patient persistence, scoped to the practitioner.
type Store interface {
	List(ctx context.Context, ownerID string) ([]Patient, error)
	GetByID(ctx context.Context, ownerID, id string) (*Patient, error)
	Upsert(ctx context.Context, ownerID string, p Patient) error
	Delete(ctx context.Context, ownerID, id string) error
}

// InMemoryStore is a map-backed Store for tests and local development.
type InMemoryStore struct {
	mu    sync.RWMutex
	rows  map[string]Patient
	owner map[string]string
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		rows:  make(map[string]Patient),
		owner: make(map[string]string),
	}
}

// List returns the owner's patients ordered by full name.
func (s *InMemoryStore) List(ctx context.Context, ownerID string) ([]Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Patient
	for id, p := range s.rows {
		if s.owner[id] == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

// GetByID returns one patient or ErrNotFound.
func (s *InMemoryStore) GetByID(ctx context.Context, ownerID, id string) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.rows[id]
	if !ok || s.owner[id] != ownerID {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Upsert inserts or replaces a patient.
func (s *InMemoryStore) Upsert(ctx context.Context, ownerID string, p Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[p.ID] = p
	s.owner[p.ID] = ownerID
	return nil
}

// Delete removes one patient.
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
