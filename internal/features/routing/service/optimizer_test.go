package service

import (
	"context"
	"testing"

	"delivery-geo-engine/internal/core/geo"
	geocoding "delivery-geo-engine/internal/features/geocoding/domain"
	"delivery-geo-engine/internal/features/routing/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResolver is a mock implementation of ports.AddressResolver for
// testing. Text addresses resolve through the byText map; coordinate
// addresses pass through.
type mockResolver struct {
	byText map[string]geo.Coordinate
	errs   map[string]error
}

// Resolve implements ports.AddressResolver.
func (m *mockResolver) Resolve(_ context.Context, addr geocoding.Address) (geo.Coordinate, error) {
	if c, ok := addr.Coordinate(); ok {
		return c, nil
	}

	key := geocoding.NormalizeAddress(addr.Text())
	if err, ok := m.errs[key]; ok {
		return geo.Coordinate{}, err
	}
	if c, ok := m.byText[key]; ok {
		return c, nil
	}
	return geo.Coordinate{}, &geocoding.GeocodeError{Address: key, Cause: geocoding.ErrNoResults}
}

func coordDest(id string, lat, lng float64) domain.Destination {
	return domain.Destination{
		ID:      id,
		Address: geocoding.AddressFromCoordinate(geo.Coordinate{Lat: lat, Lng: lng}),
	}
}

func textDest(id, address string) domain.Destination {
	return domain.Destination{
		ID:      id,
		Address: geocoding.AddressFromText(address),
	}
}

// TestOptimize_NearestNeighborOrder verifies the end-to-end scenario:
// origin (0,0) with pre-resolved stops at (0,1), (0,3), (0,2) must be
// visited nearest-first as (0,1), (0,2), (0,3), and the totals must follow
// that path rather than the input order's path.
func TestOptimize_NearestNeighborOrder(t *testing.T) {
	opt := NewRouteOptimizer(&mockResolver{})
	origin := geo.Coordinate{Lat: 0, Lng: 0}

	result, err := opt.Optimize(context.Background(), origin, []domain.Destination{
		coordDest("a", 0, 1),
		coordDest("b", 0, 3),
		coordDest("c", 0, 2),
	})
	require.NoError(t, err)

	ids := []string{}
	for _, d := range result.OrderedDestinations {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"a", "c", "b"}, ids)

	require.Len(t, result.Waypoints, 4)
	assert.Equal(t, origin, result.Waypoints[0])

	// Total must equal the sum of the three legs along the visiting path.
	var want float64
	for i := 0; i < 3; i++ {
		d, err := geo.DistanceBetween(result.Waypoints[i], result.Waypoints[i+1])
		require.NoError(t, err)
		want += d.Meters
	}
	assert.InDelta(t, want, result.TotalDistanceMeters, 1e-6)
	assert.InDelta(t, (want/1000.0)*1.5, result.TotalDurationMinutes, 1e-6)
	assert.Empty(t, result.FailedDestinations)
}

// TestOptimize_NoDestinations verifies the fully-invalid-input case.
func TestOptimize_NoDestinations(t *testing.T) {
	opt := NewRouteOptimizer(&mockResolver{})

	_, err := opt.Optimize(context.Background(), geo.Coordinate{}, nil)
	assert.ErrorIs(t, err, domain.ErrNoDestinations)
}

// TestOptimize_InvalidOrigin verifies a malformed origin is rejected before
// any resolution happens.
func TestOptimize_InvalidOrigin(t *testing.T) {
	opt := NewRouteOptimizer(&mockResolver{})

	_, err := opt.Optimize(context.Background(), geo.Coordinate{Lat: 120, Lng: 0}, []domain.Destination{
		coordDest("a", 0, 1),
	})
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
}

// TestOptimize_EmptyAddressesFilteredSilently verifies address-less
// destinations are excluded up front and not reported as failures.
func TestOptimize_EmptyAddressesFilteredSilently(t *testing.T) {
	opt := NewRouteOptimizer(&mockResolver{})

	result, err := opt.Optimize(context.Background(), geo.Coordinate{}, []domain.Destination{
		coordDest("a", 0, 1),
		textDest("blank", "   "),
		{ID: "none"},
	})
	require.NoError(t, err)

	assert.Len(t, result.OrderedDestinations, 1)
	assert.Empty(t, result.FailedDestinations)
}

// TestOptimize_AllFilteredOut verifies only-unaddressed input counts as no
// destinations at all.
func TestOptimize_AllFilteredOut(t *testing.T) {
	opt := NewRouteOptimizer(&mockResolver{})

	_, err := opt.Optimize(context.Background(), geo.Coordinate{}, []domain.Destination{
		textDest("blank", ""),
	})
	assert.ErrorIs(t, err, domain.ErrNoDestinations)
}

// TestOptimize_SingleUnresolvableDestination verifies a lone failure yields
// an empty route plus exactly one failed entry, not an error.
func TestOptimize_SingleUnresolvableDestination(t *testing.T) {
	resolver := &mockResolver{
		errs: map[string]error{
			"nowhere at all": &geocoding.GeocodeError{Address: "nowhere at all", Cause: geocoding.ErrNoResults},
		},
	}
	opt := NewRouteOptimizer(resolver)

	result, err := opt.Optimize(context.Background(), geo.Coordinate{}, []domain.Destination{
		textDest("x", "nowhere at all"),
	})
	require.NoError(t, err)

	assert.Empty(t, result.OrderedDestinations)
	require.Len(t, result.FailedDestinations, 1)
	assert.Equal(t, "x", result.FailedDestinations[0].Destination.ID)
	assert.Len(t, result.Waypoints, 1)
	assert.Zero(t, result.TotalDistanceMeters)
}

// TestOptimize_PartialFailure verifies one failing stop out of three is
// recorded and skipped while the other two are still ordered.
func TestOptimize_PartialFailure(t *testing.T) {
	resolver := &mockResolver{
		byText: map[string]geo.Coordinate{
			"near st": {Lat: 0, Lng: 1},
			"far st":  {Lat: 0, Lng: 2},
		},
		errs: map[string]error{
			"broken st": &geocoding.GeocodeError{Address: "broken st", Cause: geocoding.ErrNoResults},
		},
	}
	opt := NewRouteOptimizer(resolver)

	result, err := opt.Optimize(context.Background(), geo.Coordinate{}, []domain.Destination{
		textDest("far", "Far St"),
		textDest("bad", "Broken St"),
		textDest("near", "Near St"),
	})
	require.NoError(t, err)

	require.Len(t, result.OrderedDestinations, 2)
	assert.Equal(t, "near", result.OrderedDestinations[0].ID)
	assert.Equal(t, "far", result.OrderedDestinations[1].ID)

	require.Len(t, result.FailedDestinations, 1)
	assert.Equal(t, "bad", result.FailedDestinations[0].Destination.ID)
	assert.Contains(t, result.FailedDestinations[0].Reason, "broken st")

	// Invariant: ordered + failed == validated input count.
	assert.Equal(t, 3, len(result.OrderedDestinations)+len(result.FailedDestinations))
	assert.Len(t, result.Waypoints, len(result.OrderedDestinations)+1)
}

// TestOptimize_TieBreakByInputOrder verifies equidistant candidates are
// taken in first-occurrence order, deterministically.
func TestOptimize_TieBreakByInputOrder(t *testing.T) {
	opt := NewRouteOptimizer(&mockResolver{})

	// Both stops are one degree from the origin along different axes.
	result, err := opt.Optimize(context.Background(), geo.Coordinate{}, []domain.Destination{
		coordDest("second-axis", 1, 0),
		coordDest("first-axis", 0, 1),
	})
	require.NoError(t, err)

	require.Len(t, result.OrderedDestinations, 2)
	assert.Equal(t, "second-axis", result.OrderedDestinations[0].ID)
}

// TestOptimize_Deterministic verifies repeated calls with identical input
// produce identical ordering and totals.
func TestOptimize_Deterministic(t *testing.T) {
	resolver := &mockResolver{
		byText: map[string]geo.Coordinate{
			"a st": {Lat: 0.5, Lng: 0.5},
			"b st": {Lat: 1.0, Lng: 1.0},
			"c st": {Lat: 0.2, Lng: 0.9},
		},
	}
	opt := NewRouteOptimizer(resolver)
	dests := []domain.Destination{
		textDest("a", "A St"),
		textDest("b", "B St"),
		textDest("c", "C St"),
	}

	first, err := opt.Optimize(context.Background(), geo.Coordinate{}, dests)
	require.NoError(t, err)

	second, err := opt.Optimize(context.Background(), geo.Coordinate{}, dests)
	require.NoError(t, err)

	assert.Equal(t, first.OrderedDestinations, second.OrderedDestinations)
	assert.Equal(t, first.TotalDistanceMeters, second.TotalDistanceMeters)
	assert.Equal(t, first.TotalDurationMinutes, second.TotalDurationMinutes)
}

// TestOptimize_ResultIsFreshPerCall verifies results from separate calls do
// not share backing arrays.
func TestOptimize_ResultIsFreshPerCall(t *testing.T) {
	opt := NewRouteOptimizer(&mockResolver{})
	dests := []domain.Destination{coordDest("a", 0, 1)}

	first, err := opt.Optimize(context.Background(), geo.Coordinate{}, dests)
	require.NoError(t, err)

	second, err := opt.Optimize(context.Background(), geo.Coordinate{}, dests)
	require.NoError(t, err)

	first.OrderedDestinations[0].ID = "mutated"
	assert.Equal(t, "a", second.OrderedDestinations[0].ID)
}
