package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/podsync/backend/internal/domain/integration"
	"github.com/podsync/backend/internal/infrastructure/config"
)

// CatalogCache caches enriched catalog variants by provider variant ID to
// spare the three-endpoint merge on repeat lookups. A miss is not an error;
// Get returns the subset of hits and the IDs still missing.
type CatalogCache interface {
	// Get returns cached variants for the given IDs plus the IDs not found
	Get(ctx context.Context, variantIDs []int64) ([]integration.EnrichedVariant, []int64, error)

	// Set stores enriched variants with the cache TTL
	Set(ctx context.Context, variants []integration.EnrichedVariant) error
}

// RedisCatalogCache implements CatalogCache backed by Redis
type RedisCatalogCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCatalogCache creates a Redis-backed catalog cache
func NewRedisCatalogCache(cfg config.RedisConfig, ttl time.Duration) (*RedisCatalogCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCatalogCacheWithClient(client, ttl), nil
}

// NewRedisCatalogCacheWithClient creates a cache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisCatalogCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCatalogCache {
	return &RedisCatalogCache{
		client:    client,
		keyPrefix: "catalog:variant:",
		ttl:       ttl,
	}
}

// Get returns cached variants for the given IDs plus the IDs not found
func (c *RedisCatalogCache) Get(ctx context.Context, variantIDs []int64) ([]integration.EnrichedVariant, []int64, error) {
	if len(variantIDs) == 0 {
		return nil, nil, nil
	}

	keys := make([]string, len(variantIDs))
	for i, id := range variantIDs {
		keys[i] = fmt.Sprintf("%s%d", c.keyPrefix, id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("catalog cache read failed: %w", err)
	}

	hits := make([]integration.EnrichedVariant, 0, len(variantIDs))
	var misses []int64
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			misses = append(misses, variantIDs[i])
			continue
		}
		var variant integration.EnrichedVariant
		if err := json.Unmarshal([]byte(raw), &variant); err != nil {
			// Treat a corrupt entry as a miss so it gets rewritten
			misses = append(misses, variantIDs[i])
			continue
		}
		hits = append(hits, variant)
	}

	return hits, misses, nil
}

// Set stores enriched variants with the cache TTL
func (c *RedisCatalogCache) Set(ctx context.Context, variants []integration.EnrichedVariant) error {
	if len(variants) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for _, variant := range variants {
		payload, err := json.Marshal(variant)
		if err != nil {
			return fmt.Errorf("catalog cache encode failed: %w", err)
		}
		pipe.Set(ctx, fmt.Sprintf("%s%d", c.keyPrefix, variant.ID), payload, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("catalog cache write failed: %w", err)
	}
	return nil
}
