package ports

import (
	"context"

	"delivery-geo-engine/internal/features/geocoding/domain"
)

// Geocoder defines the interface for forward geocoding providers.
// An empty slice with a nil error means "address not found"; a non-nil error
// means the service itself failed. Callers must not conflate the two.
type Geocoder interface {
	// Search resolves free-form address text to candidate matches,
	// best match first.
	Search(ctx context.Context, text string) ([]domain.Match, error)
}

// ReverseGeocoder defines the interface for reverse geocoding providers.
type ReverseGeocoder interface {
	// Reverse returns a human-readable address for the given coordinates.
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

// GeocodeCache defines the interface for the address -> coordinate cache.
// Keys are normalized address text. Entries never expire within a session.
type GeocodeCache interface {
	// Get returns the cached entry for the key, with found=false on a miss.
	Get(ctx context.Context, key string) (entry domain.CacheEntry, found bool, err error)
	// Put stores the entry under the key, replacing any previous value.
	Put(ctx context.Context, key string, entry domain.CacheEntry) error
}
