package documents

import (
	"context"
	"sort"
	"sync"
)

// Store abstracts document metadata persistence, scoped to the practitioner.
type Store interface {
	List(ctx context.Context, ownerID string) ([]ClinicalDocument, error)
	GetByID(ctx context.Context, ownerID, id string) (*ClinicalDocument, error)
	Insert(ctx context.Context, ownerID string, doc ClinicalDocument) error
	Delete(ctx context.Context, ownerID, id string) error
}

// InMemoryStore is a map-backed Store for tests and local development.
type InMemoryStore struct {
	mu    sync.RWMutex
	rows  map[string]ClinicalDocument
	owner map[string]string
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		rows:  make(map[string]ClinicalDocument),
		owner: make(map[string]string),
	}
}

// List returns the owner's documents, newest first.
func (s *InMemoryStore) List(ctx context.Context, ownerID string) ([]ClinicalDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ClinicalDocument
	for id, doc := range s.rows {
		if s.owner[id] == ownerID {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// GetByID returns one document or ErrNotFound.
func (s *InMemoryStore) GetByID(ctx context.Context, ownerID, id string) (*ClinicalDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.rows[id]
	if !ok || s.owner[id] != ownerID {
		return nil, ErrNotFound
	}
	return &doc, nil
}

// Insert stores one document row.
func (s *InMemoryStore) Insert(ctx context.Context, ownerID string, doc ClinicalDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[doc.ID] = doc
	s.owner[doc.ID] = ownerID
	return nil
}

// Delete removes one document row.
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
