package service

import (
	"context"
	"math"

	"delivery-geo-engine/internal/core/geo"
	"delivery-geo-engine/internal/core/logger"
	"delivery-geo-engine/internal/features/routing/domain"
	"delivery-geo-engine/internal/features/routing/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentResolutions bounds the fan-out of address resolution inside
// one optimize call. Destination counts are small, so this mostly protects
// the geocoding service from bursts on a cold cache.
const maxConcurrentResolutions = 4

// RouteOptimizer orders delivery stops with a greedy nearest-neighbor
// heuristic.
//
// The algorithm minimizes immediate travel distance at each step. It does
// not attempt global route optimization; determinism and partial-failure
// tolerance take priority over optimality. Cost is O(n²) distance
// comparisons, acceptable for the single-digit to low-tens stop counts of
// a delivery run.
type RouteOptimizer struct {
	resolver ports.AddressResolver
	logger   *zap.Logger
}

// NewRouteOptimizer creates a new RouteOptimizer over the given resolver.
func NewRouteOptimizer(resolver ports.AddressResolver) *RouteOptimizer {
	return &RouteOptimizer{
		resolver: resolver,
		logger:   logger.Named("route-optimizer"),
	}
}

// Optimize orders the destinations by repeatedly visiting the nearest
// unvisited stop, starting from origin.
//
// Destinations without any address are dropped before optimization and are
// not reported as failures. Destinations whose resolution fails are recorded
// in FailedDestinations and skipped; partial failure never aborts the run.
// Only fully invalid input (bad origin, nothing left to optimize) returns an
// error.
func (o *RouteOptimizer) Optimize(ctx context.Context, origin geo.Coordinate, destinations []domain.Destination) (*domain.RouteResult, error) {
	if !origin.Valid() {
		return nil, geo.ErrInvalidCoordinate
	}

	candidates := make([]domain.Destination, 0, len(destinations))
	for _, d := range destinations {
		if !d.HasAddress() {
			o.logger.Debug("Skipping destination without address", zap.String("id", d.ID))
			continue
		}
		candidates = append(candidates, d)
	}

	if len(candidates) == 0 {
		return nil, domain.ErrNoDestinations
	}

	coords, failed := o.resolveAll(ctx, candidates)

	// Unvisited destinations that resolved, in input order. Iterating this
	// slice front to back with a strict < comparison makes the tie-break
	// deterministic: first occurrence wins.
	type stop struct {
		dest  domain.Destination
		coord geo.Coordinate
	}
	unvisited := make([]stop, 0, len(candidates))
	for i, d := range candidates {
		if coords[i] != nil {
			unvisited = append(unvisited, stop{dest: d, coord: *coords[i]})
		}
	}

	ordered := make([]domain.Destination, 0, len(unvisited))
	waypoints := make([]geo.Coordinate, 0, len(unvisited)+1)
	waypoints = append(waypoints, origin)

	current := origin
	for len(unvisited) > 0 {
		best := -1
		minMeters := math.MaxFloat64

		// Greedy step: nearest unvisited stop from the current position.
		for i, s := range unvisited {
			d, err := geo.DistanceBetween(current, s.coord)
			if err != nil {
				continue
			}
			if d.Meters < minMeters {
				minMeters = d.Meters
				best = i
			}
		}

		if best == -1 {
			// Degenerate case: no distance is computable. Append the rest in
			// their original relative order so every non-filtered destination
			// still lands in the result.
			o.logger.Warn("No reachable candidate, appending remaining stops in input order",
				zap.Int("remaining", len(unvisited)),
			)
			for _, s := range unvisited {
				ordered = append(ordered, s.dest)
				waypoints = append(waypoints, s.coord)
			}
			break
		}

		chosen := unvisited[best]
		ordered = append(ordered, chosen.dest)
		waypoints = append(waypoints, chosen.coord)
		current = chosen.coord
		unvisited = append(unvisited[:best], unvisited[best+1:]...)
	}

	totalMeters, totalMinutes := EstimateTotals(waypoints)

	return &domain.RouteResult{
		OrderedDestinations:  ordered,
		Waypoints:            waypoints,
		TotalDistanceMeters:  totalMeters,
		TotalDurationMinutes: totalMinutes,
		FailedDestinations:   failed,
	}, nil
}

// resolveAll resolves every candidate concurrently. The returned slice is
// positional: coords[i] is nil when candidates[i] failed, and the failure is
// recorded in input order.
func (o *RouteOptimizer) resolveAll(ctx context.Context, candidates []domain.Destination) ([]*geo.Coordinate, []domain.FailedDestination) {
	coords := make([]*geo.Coordinate, len(candidates))
	errs := make([]error, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentResolutions)

	for i, d := range candidates {
		g.Go(func() error {
			c, err := o.resolver.Resolve(gctx, d.Address)
			if err != nil {
				// Per-destination failures are recorded, never propagated:
				// a failed stop must not cancel its siblings.
				errs[i] = err
				return nil
			}
			coords[i] = &c
			return nil
		})
	}
	_ = g.Wait()

	failed := make([]domain.FailedDestination, 0)
	for i, err := range errs {
		if err == nil {
			continue
		}
		o.logger.Warn("Destination resolution failed",
			zap.String("id", candidates[i].ID),
			zap.Error(err),
		)
		failed = append(failed, domain.FailedDestination{
			Destination: candidates[i],
			Reason:      err.Error(),
		})
	}

	return coords, failed
}
