package cache

import (
	"context"
	"sync"
	"time"

	"github.com/podsync/backend/internal/domain/integration"
)

// InMemoryCatalogCache implements CatalogCache with a process-local map.
// Suitable for single-instance deployments and tests.
type InMemoryCatalogCache struct {
	mu      sync.RWMutex
	entries map[int64]inMemoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type inMemoryEntry struct {
	variant   integration.EnrichedVariant
	expiresAt time.Time
}

// NewInMemoryCatalogCache creates an in-memory catalog cache
func NewInMemoryCatalogCache(ttl time.Duration) *InMemoryCatalogCache {
	return &InMemoryCatalogCache{
		entries: make(map[int64]inMemoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns cached variants for the given IDs plus the IDs not found
func (c *InMemoryCatalogCache) Get(_ context.Context, variantIDs []int64) ([]integration.EnrichedVariant, []int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	hits := make([]integration.EnrichedVariant, 0, len(variantIDs))
	var misses []int64
	for _, id := range variantIDs {
		entry, ok := c.entries[id]
		if !ok || now.After(entry.expiresAt) {
			misses = append(misses, id)
			continue
		}
		hits = append(hits, entry.variant)
	}
	return hits, misses, nil
}

// Set stores enriched variants with the cache TTL
func (c *InMemoryCatalogCache) Set(_ context.Context, variants []integration.EnrichedVariant) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	for _, variant := range variants {
		c.entries[variant.ID] = inMemoryEntry{variant: variant, expiresAt: expiresAt}
	}
	return nil
}
