package domain

import (
	"errors"
	"fmt"
	"strings"

	"delivery-geo-engine/internal/core/geo"
)

// ErrEmptyAddress is returned when an address is empty after trimming.
var ErrEmptyAddress = errors.New("address is empty")

// ErrNoResults is the cause recorded when the geocoding service answered
// successfully but found no match for the address.
var ErrNoResults = errors.New("no geocoding results")

// GeocodeError is the typed failure produced when an address could not be
// resolved. It never carries a substitute coordinate; callers decide the
// fallback policy.
type GeocodeError struct {
	// Address is the normalized address text that failed to resolve.
	Address string
	// Cause is the underlying failure (service error, ErrNoResults, ...).
	Cause error
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("geocode %q: %v", e.Address, e.Cause)
}

func (e *GeocodeError) Unwrap() error { return e.Cause }

// Address is the tagged union of the two ways callers can specify a place:
// an already-known coordinate or free-form address text. Exactly one of the
// two is set; resolution dispatches on the tag once, at the boundary.
type Address struct {
	coord *geo.Coordinate
	text  string
}

// AddressFromCoordinate builds an Address carrying a known coordinate.
func AddressFromCoordinate(c geo.Coordinate) Address {
	return Address{coord: &c}
}

// AddressFromText builds an Address carrying free-form address text.
func AddressFromText(text string) Address {
	return Address{text: text}
}

// Coordinate returns the coordinate and true when the Address carries one.
func (a Address) Coordinate() (geo.Coordinate, bool) {
	if a.coord == nil {
		return geo.Coordinate{}, false
	}
	return *a.coord, true
}

// Text returns the raw address text (empty for coordinate addresses).
func (a Address) Text() string { return a.text }

// IsZero reports whether the Address carries neither a coordinate nor
// non-blank text.
func (a Address) IsZero() bool {
	return a.coord == nil && strings.TrimSpace(a.text) == ""
}

// NormalizeAddress canonicalizes address text for use as a cache key:
// trimmed, case-folded and with internal whitespace runs collapsed.
func NormalizeAddress(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// CacheEntry is a resolved address stored in the geocode cache.
type CacheEntry struct {
	// Coordinate is the resolved location.
	Coordinate geo.Coordinate `json:"coordinate"`
	// FormattedAddress is the provider's display name for the match, when available.
	FormattedAddress string `json:"formatted_address,omitempty"`
}

// Match is a single raw geocoding result as returned by a provider.
// Coordinates are unvalidated at this point.
type Match struct {
	// Lat is the reported latitude.
	Lat float64
	// Lng is the reported longitude.
	Lng float64
	// DisplayName is the provider's human-readable label for the match.
	DisplayName string
}
