package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"delivery-geo-engine/internal/core/cache"
	"delivery-geo-engine/internal/features/geocoding/domain"
)

const geocodeKeyPrefix = "geocode:"

// RedisGeocodeCache implements ports.GeocodeCache on top of the core cache
// port. Entries carry no TTL: addresses are assumed geocode-stable, so the
// cache only ever grows until the backing store is cleared.
type RedisGeocodeCache struct {
	cache cache.Cache
}

// NewRedisGeocodeCache creates a new RedisGeocodeCache.
func NewRedisGeocodeCache(c cache.Cache) *RedisGeocodeCache {
	return &RedisGeocodeCache{
		cache: c,
	}
}

// Get returns the cached entry for the key, with found=false on a miss.
func (r *RedisGeocodeCache) Get(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
	storageKey := geocodeKeyPrefix + key

	data, err := r.cache.Get(ctx, storageKey)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return domain.CacheEntry{}, false, nil
		}
		return domain.CacheEntry{}, false, fmt.Errorf("failed to get geocode entry: %w", err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("failed to unmarshal geocode entry: %w", err)
	}

	return entry, true, nil
}

// Put stores the entry under the key, replacing any previous value.
func (r *RedisGeocodeCache) Put(ctx context.Context, key string, entry domain.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal geocode entry: %w", err)
	}

	if err := r.cache.Set(ctx, geocodeKeyPrefix+key, data, 0); err != nil {
		return fmt.Errorf("failed to save geocode entry: %w", err)
	}

	return nil
}
