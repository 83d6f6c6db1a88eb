package service

import (
	"context"
	"time"

	"delivery-geo-engine/internal/core/geo"
	"delivery-geo-engine/internal/core/logger"
	"delivery-geo-engine/internal/features/location/domain"
	"delivery-geo-engine/internal/features/location/ports"

	"go.uber.org/zap"
)

// ipAccuracyMeters is the fixed coarse accuracy attributed to IP-based
// positions: city level at best, tens of kilometers in practice.
const ipAccuracyMeters = 25_000.0

// LocationResolver resolves the courier's current position through an
// ordered fallback chain: precise device fix, approximate device fix,
// IP geolocation, fixed default. Every failure falls through to the next
// tier, so resolution never fails as a whole.
type LocationResolver struct {
	sensor        ports.PositionSensor
	locators      []ports.IPLocator
	defaultCoord  geo.Coordinate
	sensorTimeout time.Duration
	sensorMaxAge  time.Duration
	logger        *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// Options configure a LocationResolver.
type Options struct {
	// SensorTimeout bounds each device sensor query.
	SensorTimeout time.Duration
	// SensorMaxAge is the oldest acceptable device fix for the precise tier.
	SensorMaxAge time.Duration
	// DefaultCoordinate is the last-resort fallback position.
	DefaultCoordinate geo.Coordinate
}

// NewLocationResolver creates a LocationResolver over the given sensor and
// IP locator chain. Locators are tried in order.
func NewLocationResolver(sensor ports.PositionSensor, locators []ports.IPLocator, opts Options) *LocationResolver {
	return &LocationResolver{
		sensor:        sensor,
		locators:      locators,
		defaultCoord:  opts.DefaultCoordinate,
		sensorTimeout: opts.SensorTimeout,
		sensorMaxAge:  opts.SensorMaxAge,
		logger:        logger.Named("location-resolver"),
		now:           time.Now,
	}
}

// ResolveCurrent resolves the current position. It never returns an error:
// the default tier guarantees a result. Each call produces a fresh
// ResolvedLocation.
func (r *LocationResolver) ResolveCurrent(ctx context.Context) domain.ResolvedLocation {
	if loc, ok := r.fromSensor(ctx, true); ok {
		return loc
	}
	if loc, ok := r.fromSensor(ctx, false); ok {
		return loc
	}
	if loc, ok := r.fromIP(ctx); ok {
		return loc
	}

	r.logger.Info("All location tiers failed, using default coordinate")
	return domain.ResolvedLocation{
		Coordinate: r.defaultCoord,
		Confidence: domain.ConfidenceDefault,
		ResolvedAt: r.now(),
	}
}

func (r *LocationResolver) fromSensor(ctx context.Context, highAccuracy bool) (domain.ResolvedLocation, bool) {
	if r.sensor == nil {
		return domain.ResolvedLocation{}, false
	}

	queryCtx, cancel := context.WithTimeout(ctx, r.sensorTimeout)
	defer cancel()

	maxAge := r.sensorMaxAge
	if !highAccuracy {
		// The approximate tier accepts an older fix before giving up on
		// device data entirely.
		maxAge = 2 * r.sensorMaxAge
	}

	pos, err := r.sensor.GetPosition(queryCtx, ports.PositionOptions{
		HighAccuracy: highAccuracy,
		Timeout:      r.sensorTimeout,
		MaxAge:       maxAge,
	})
	if err != nil {
		// The cause only matters for messaging; every cause falls through.
		r.logger.Debug("Device sensor tier failed",
			zap.Bool("high_accuracy", highAccuracy),
			zap.Error(err),
		)
		return domain.ResolvedLocation{}, false
	}

	if !pos.Coordinate.Valid() {
		r.logger.Warn("Device sensor returned out-of-range coordinates",
			zap.Float64("lat", pos.Coordinate.Lat),
			zap.Float64("lng", pos.Coordinate.Lng),
		)
		return domain.ResolvedLocation{}, false
	}

	confidence := domain.ConfidencePrecise
	if !highAccuracy {
		confidence = domain.ConfidenceApproximate
	}

	return domain.ResolvedLocation{
		Coordinate:     pos.Coordinate,
		Confidence:     confidence,
		AccuracyMeters: pos.AccuracyMeters,
		ResolvedAt:     r.now(),
	}, true
}

func (r *LocationResolver) fromIP(ctx context.Context) (domain.ResolvedLocation, bool) {
	for _, locator := range r.locators {
		coord, err := locator.Lookup(ctx)
		if err != nil {
			r.logger.Debug("IP geolocation provider failed",
				zap.String("provider", locator.Name()),
				zap.Error(err),
			)
			continue
		}

		return domain.ResolvedLocation{
			Coordinate:     coord,
			Confidence:     domain.ConfidenceIP,
			AccuracyMeters: ipAccuracyMeters,
			ResolvedAt:     r.now(),
		}, true
	}

	return domain.ResolvedLocation{}, false
}
