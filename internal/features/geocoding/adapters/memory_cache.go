package adapters

import (
	"context"
	"sync"

	"delivery-geo-engine/internal/features/geocoding/domain"
)

// MemoryGeocodeCache implements ports.GeocodeCache with a process-wide map.
// It is unbounded: the set of distinct addresses in a delivery session is
// small relative to session length, and entries are assumed geocode-stable.
// Safe for concurrent use.
type MemoryGeocodeCache struct {
	mu      sync.RWMutex
	entries map[string]domain.CacheEntry
}

// NewMemoryGeocodeCache creates an empty in-memory geocode cache.
func NewMemoryGeocodeCache() *MemoryGeocodeCache {
	return &MemoryGeocodeCache{
		entries: make(map[string]domain.CacheEntry),
	}
}

// Get returns the cached entry for the key, with found=false on a miss.
func (c *MemoryGeocodeCache) Get(_ context.Context, key string) (domain.CacheEntry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	return entry, ok, nil
}

// Put stores the entry under the key, replacing any previous value.
func (c *MemoryGeocodeCache) Put(_ context.Context, key string, entry domain.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry
	return nil
}

// Len returns the number of cached entries.
func (c *MemoryGeocodeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
