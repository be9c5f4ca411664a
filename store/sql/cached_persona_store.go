package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const personaCacheKeyPrefix = "supreme-ai-sdk::personas::v1"

// CachedPersonaStore layers a read-through cache over a slower persona source.
// Personas change rarely relative to how often the embedded surface asks for
// them, so cached reads keep the ready-event path cheap.
type CachedPersonaStore struct {
	base  core.PersonaStore
	cache repositorycache.CacheService
}

func NewCachedPersonaStore(base core.PersonaStore, cacheService repositorycache.CacheService) (*CachedPersonaStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base persona store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: persona cache service is required")
	}
	return &CachedPersonaStore{base: base, cache: cacheService}, nil
}

// PersonaCacheKey returns the deterministic cache key for an organization's
// persona list: supreme-ai-sdk::personas::v1::<organization_id>.
func PersonaCacheKey(organizationID string) (string, error) {
	organizationID = strings.TrimSpace(organizationID)
	if organizationID == "" {
		return "", fmt.Errorf("sqlstore: organization id is required")
	}
	return personaCacheKeyPrefix + "::" + url.PathEscape(organizationID), nil
}

func (s *CachedPersonaStore) List(ctx context.Context, organizationID string) ([]core.Persona, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached persona store is not configured")
	}
	cacheKey, err := PersonaCacheKey(organizationID)
	if err != nil {
		return nil, err
	}

	personas, err := repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) ([]core.Persona, error) {
		fetched, fetchErr := s.base.List(ctx, strings.TrimSpace(organizationID))
		if fetchErr != nil {
			return nil, fetchErr
		}
		return append([]core.Persona(nil), fetched...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]core.Persona(nil), personas...), nil
}

// Invalidate drops the cached list so the next read refetches from the base.
func (s *CachedPersonaStore) Invalidate(ctx context.Context, organizationID string) error {
	if s == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached persona store is not configured")
	}
	cacheKey, err := PersonaCacheKey(organizationID)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

var _ core.PersonaStore = (*CachedPersonaStore)(nil)
