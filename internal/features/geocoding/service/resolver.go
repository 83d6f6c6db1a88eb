package service

import (
	"context"

	"delivery-geo-engine/internal/core/geo"
	"delivery-geo-engine/internal/core/logger"
	"delivery-geo-engine/internal/features/geocoding/domain"
	"delivery-geo-engine/internal/features/geocoding/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AddressResolver resolves addresses (coordinate or free text) to validated
// coordinates, consulting the geocode cache before the external geocoder.
//
// Resolution failures are always surfaced as typed errors; the resolver
// never substitutes a default coordinate, so callers stay in charge of
// fallback policy.
type AddressResolver struct {
	cache    ports.GeocodeCache
	geocoder ports.Geocoder
	reverse  ports.ReverseGeocoder
	group    singleflight.Group
	logger   *zap.Logger
}

// NewAddressResolver creates a new AddressResolver. The reverse geocoder is
// optional and may be nil.
func NewAddressResolver(cache ports.GeocodeCache, geocoder ports.Geocoder, reverse ports.ReverseGeocoder) *AddressResolver {
	return &AddressResolver{
		cache:    cache,
		geocoder: geocoder,
		reverse:  reverse,
		logger:   logger.Named("address-resolver"),
	}
}

// Resolve dispatches on the address tag: coordinates pass through after
// range validation with no network call; text goes through normalization,
// the cache and, on a miss, the geocoder.
func (r *AddressResolver) Resolve(ctx context.Context, addr domain.Address) (geo.Coordinate, error) {
	if c, ok := addr.Coordinate(); ok {
		if !c.Valid() {
			return geo.Coordinate{}, geo.ErrInvalidCoordinate
		}
		return c, nil
	}

	key := domain.NormalizeAddress(addr.Text())
	if key == "" {
		return geo.Coordinate{}, domain.ErrEmptyAddress
	}

	if entry, found, err := r.cache.Get(ctx, key); err == nil && found {
		return entry.Coordinate, nil
	} else if err != nil {
		// A broken cache degrades to a miss; the lookup still proceeds.
		r.logger.Warn("Geocode cache lookup failed",
			zap.String("address", key),
			zap.Error(err),
		)
	}

	// Concurrent misses for the same key share one upstream call. The shared
	// fetch runs detached from the first caller's context so cancelling that
	// caller does not fail every waiter on the key; the geocoder's own
	// timeout still bounds the call.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		return r.fetch(fetchCtx, key)
	})
	if err != nil {
		return geo.Coordinate{}, err
	}

	return v.(domain.CacheEntry).Coordinate, nil
}

// fetch queries the geocoder for the normalized key, validates the top
// match and populates the cache.
func (r *AddressResolver) fetch(ctx context.Context, key string) (domain.CacheEntry, error) {
	matches, err := r.geocoder.Search(ctx, key)
	if err != nil {
		return domain.CacheEntry{}, &domain.GeocodeError{Address: key, Cause: err}
	}

	if len(matches) == 0 {
		return domain.CacheEntry{}, &domain.GeocodeError{Address: key, Cause: domain.ErrNoResults}
	}

	best := matches[0]
	coord := geo.Coordinate{Lat: best.Lat, Lng: best.Lng}
	if !coord.Valid() {
		return domain.CacheEntry{}, &domain.GeocodeError{Address: key, Cause: geo.ErrInvalidCoordinate}
	}

	entry := domain.CacheEntry{
		Coordinate:       coord,
		FormattedAddress: best.DisplayName,
	}

	if err := r.cache.Put(ctx, key, entry); err != nil {
		r.logger.Warn("Geocode cache write failed",
			zap.String("address", key),
			zap.Error(err),
		)
	}

	return entry, nil
}

// Describe reverse-geocodes a coordinate into a human-readable address.
func (r *AddressResolver) Describe(ctx context.Context, c geo.Coordinate) (string, error) {
	if !c.Valid() {
		return "", geo.ErrInvalidCoordinate
	}
	if r.reverse == nil {
		return "", domain.ErrNoResults
	}
	return r.reverse.Reverse(ctx, c.Lat, c.Lng)
}
