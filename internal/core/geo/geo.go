// Package geo provides the shared geographic value types and pure
// great-circle math used by the geocoding, location, routing and tracking
// features. It has no dependencies beyond the standard library.
package geo

import (
	"errors"
	"math"
)

const (
	// earthRadiusMeters is the mean spherical Earth radius.
	earthRadiusMeters = 6_371_000.0

	// metersPerMile converts statute miles.
	metersPerMile = 1609.344
)

// ErrInvalidCoordinate indicates a latitude/longitude pair outside the valid
// WGS-84 ranges or containing non-finite values.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is an immutable geographic point in decimal degrees.
type Coordinate struct {
	// Lat is the latitude in [-90, 90].
	Lat float64 `json:"lat"`
	// Lng is the longitude in [-180, 180].
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are finite and within range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Distance is a great-circle distance expressed in the units callers
// commonly need.
type Distance struct {
	// Meters is the distance in meters.
	Meters float64 `json:"meters"`
	// Kilometers is the distance in kilometers.
	Kilometers float64 `json:"kilometers"`
	// Miles is the distance in statute miles.
	Miles float64 `json:"miles"`
}

// DistanceBetween returns the haversine distance between two coordinates.
//
// On malformed input it returns a zero Distance together with
// ErrInvalidCoordinate instead of propagating a fatal error; callers must
// treat a zero distance defensively. The operation is symmetric:
// DistanceBetween(a, b) == DistanceBetween(b, a).
func DistanceBetween(a, b Coordinate) (Distance, error) {
	if !a.Valid() || !b.Valid() {
		return Distance{}, ErrInvalidCoordinate
	}

	dLat := degToRad(b.Lat - a.Lat)
	dLng := degToRad(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLng*sinLng

	meters := 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))

	return Distance{
		Meters:     meters,
		Kilometers: meters / 1000.0,
		Miles:      meters / metersPerMile,
	}, nil
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
