package sqlstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

type stubPersonaStore struct {
	mu        sync.Mutex
	personas  []core.Persona
	listCalls int
	listErr   error
}

func (s *stubPersonaStore) List(_ context.Context, _ string) ([]core.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]core.Persona(nil), s.personas...), nil
}

func newTestPersonaCacheService(t *testing.T) repositorycache.CacheService {
	t.Helper()
	config := repositorycache.DefaultConfig()
	config.TTL = time.Minute
	service, err := repositorycache.NewCacheService(config)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	return service
}

func TestCachedPersonaStore_MissFetchThenHit(t *testing.T) {
	base := &stubPersonaStore{
		personas: []core.Persona{{ID: "p-1", Name: "Analyst"}},
	}
	store, err := NewCachedPersonaStore(base, newTestPersonaCacheService(t))
	if err != nil {
		t.Fatalf("new cached persona store: %v", err)
	}

	personas, err := store.List(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	if len(personas) != 1 || personas[0].ID != "p-1" {
		t.Fatalf("unexpected personas %+v", personas)
	}
	if base.listCalls != 1 {
		t.Fatalf("expected one base read, got %d", base.listCalls)
	}

	if _, err := store.List(context.Background(), "org-1"); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if base.listCalls != 1 {
		t.Fatalf("expected cache hit on second list, base calls=%d", base.listCalls)
	}
}

func TestCachedPersonaStore_InvalidateForcesRefetch(t *testing.T) {
	base := &stubPersonaStore{
		personas: []core.Persona{{ID: "p-1", Name: "Analyst"}},
	}
	store, err := NewCachedPersonaStore(base, newTestPersonaCacheService(t))
	if err != nil {
		t.Fatalf("new cached persona store: %v", err)
	}

	if _, err := store.List(context.Background(), "org-1"); err != nil {
		t.Fatalf("prime cache: %v", err)
	}
	if err := store.Invalidate(context.Background(), "org-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := store.List(context.Background(), "org-1"); err != nil {
		t.Fatalf("list after invalidate: %v", err)
	}
	if base.listCalls != 2 {
		t.Fatalf("expected refetch after invalidation, base calls=%d", base.listCalls)
	}
}

func TestCachedPersonaStore_PropagatesBaseErrors(t *testing.T) {
	baseErr := errors.New("persona source down")
	base := &stubPersonaStore{listErr: baseErr}
	store, err := NewCachedPersonaStore(base, newTestPersonaCacheService(t))
	if err != nil {
		t.Fatalf("new cached persona store: %v", err)
	}
	if _, err := store.List(context.Background(), "org-1"); !errors.Is(err, baseErr) {
		t.Fatalf("expected base error propagation, got %v", err)
	}
}
