package service

import (
	"math"
	"testing"

	"delivery-geo-engine/internal/core/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEstimateTotals verifies leg summation and the 1.5 min/km duration
// factor.
func TestEstimateTotals(t *testing.T) {
	waypoints := []geo.Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 1},
		{Lat: 0, Lng: 2},
	}

	meters, minutes := EstimateTotals(waypoints)

	var want float64
	for i := 0; i < len(waypoints)-1; i++ {
		d, err := geo.DistanceBetween(waypoints[i], waypoints[i+1])
		require.NoError(t, err)
		want += d.Meters
	}

	assert.InDelta(t, want, meters, 1e-6)
	assert.InDelta(t, (want/1000.0)*1.5, minutes, 1e-6)
}

// TestEstimateTotals_DegenerateInputs verifies empty and single-waypoint
// sequences yield zero totals.
func TestEstimateTotals_DegenerateInputs(t *testing.T) {
	meters, minutes := EstimateTotals(nil)
	assert.Zero(t, meters)
	assert.Zero(t, minutes)

	meters, minutes = EstimateTotals([]geo.Coordinate{{Lat: 1, Lng: 1}})
	assert.Zero(t, meters)
	assert.Zero(t, minutes)
}

// TestEstimateTotals_SkipsMalformedLegs verifies a corrupt waypoint
// contributes zero instead of poisoning the total with NaN.
func TestEstimateTotals_SkipsMalformedLegs(t *testing.T) {
	waypoints := []geo.Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: math.NaN(), Lng: 0},
		{Lat: 0, Lng: 1},
	}

	meters, _ := EstimateTotals(waypoints)

	assert.False(t, math.IsNaN(meters))
	assert.Zero(t, meters)
}
