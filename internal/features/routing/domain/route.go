package domain

import (
	"errors"

	"delivery-geo-engine/internal/core/geo"
)

// ErrNoDestinations is returned when nothing is left to optimize after
// input validation.
var ErrNoDestinations = errors.New("no destinations to optimize")

// FailedDestination records a destination that could not be placed in the
// route, with the resolution failure that caused it.
type FailedDestination struct {
	// Destination is the stop that failed.
	Destination Destination `json:"destination"`
	// Reason describes the failure (e.g., the geocoding error).
	Reason string `json:"reason"`
}

// RouteResult is the outcome of one optimization call. It is built fresh
// per call and never mutated after construction.
//
// Invariants: len(OrderedDestinations) + len(FailedDestinations) equals the
// validated input count; len(Waypoints) == len(OrderedDestinations) + 1 with
// the origin first; TotalDistanceMeters >= 0.
type RouteResult struct {
	// OrderedDestinations is the visiting sequence.
	OrderedDestinations []Destination `json:"ordered_destinations"`
	// Waypoints is the coordinate path, beginning with the origin.
	Waypoints []geo.Coordinate `json:"waypoints"`
	// TotalDistanceMeters is the sum of consecutive-leg haversine distances.
	TotalDistanceMeters float64 `json:"total_distance_meters"`
	// TotalDurationMinutes is a coarse duration estimate derived from
	// distance and a constant urban speed. It is not a routing-grade ETA.
	TotalDurationMinutes float64 `json:"total_duration_minutes"`
	// FailedDestinations lists stops excluded by resolution failures.
	FailedDestinations []FailedDestination `json:"failed_destinations"`
}
