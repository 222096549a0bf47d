package settings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type stubStore struct {
	mu    sync.Mutex
	rows  map[string]Settings
	reads int
}

func newStubStore() *stubStore {
	return &stubStore{rows: make(map[string]Settings)}
}

func (s *stubStore) Get(ctx context.Context, ownerID string) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	return s.rows[ownerID], nil
}

func (s *stubStore) Save(ctx context.Context, ownerID string, in Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[ownerID] = in
	return nil
}

func newCacheFixture(t *testing.T) (*CachedStore, *stubStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	inner := newStubStore()
	return NewCachedStore(inner, client, time.Hour, nil), inner, mr
}

func TestCachedStore_ReadThrough(t *testing.T) {
	cache, inner, _ := newCacheFixture(t)
	ctx := context.Background()

	inner.rows["prac-1"] = Settings{Name: "Dra. Carla Mendes", CRP: "06/12345"}

	got, err := cache.Get(ctx, "prac-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Dra. Carla Mendes" {
		t.Fatalf("unexpected settings: %+v", got)
	}

	// Second read must be served from Redis.
	if _, err := cache.Get(ctx, "prac-1"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if inner.reads != 1 {
		t.Fatalf("expected 1 inner read, got %d", inner.reads)
	}
}

func TestCachedStore_SaveRefreshesCache(t *testing.T) {
	cache, inner, _ := newCacheFixture(t)
	ctx := context.Background()

	if _, err := cache.Get(ctx, "prac-1"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := cache.Save(ctx, "prac-1", Settings{Name: "Dra. Carla Mendes"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := cache.Get(ctx, "prac-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Dra. Carla Mendes" {
		t.Fatalf("expected refreshed entry, got %+v", got)
	}
	if inner.reads != 1 {
		t.Fatalf("expected save to refresh the cache, inner reads = %d", inner.reads)
	}
	if inner.rows["prac-1"].Name != "Dra. Carla Mendes" {
		t.Fatal("expected write-through to inner store")
	}
}

func TestCachedStore_CorruptEntryFallsBack(t *testing.T) {
	cache, inner, mr := newCacheFixture(t)
	ctx := context.Background()

	inner.rows["prac-1"] = Settings{Name: "Dra. Carla Mendes"}
	mr.Set("psipro:settings:prac-1", "{not json")

	got, err := cache.Get(ctx, "prac-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Dra. Carla Mendes" {
		t.Fatalf("expected fallback to inner store, got %+v", got)
	}
}

func TestNormalize(t *testing.T) {
	s := Settings{
		Name:            "  Dra. Carla Mendes ",
		CRP:             " 06/12345 ",
		Specializations: []string{" TCC ", "", "Psicanálise"},
	}
	s.Normalize()
	if s.Name != "Dra. Carla Mendes" || s.CRP != "06/12345" {
		t.Fatalf("unexpected normalization: %+v", s)
	}
	if len(s.Specializations) != 2 || s.Specializations[0] != "TCC" {
		t.Fatalf("unexpected specializations: %v", s.Specializations)
	}
}
