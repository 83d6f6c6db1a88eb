package ports

import (
	"context"
	"time"

	"delivery-geo-engine/internal/core/geo"
	"delivery-geo-engine/internal/features/location/domain"
)

// PositionOptions bound a device sensor query.
type PositionOptions struct {
	// HighAccuracy requests a precise fix; when false, coarser fixes are accepted.
	HighAccuracy bool
	// Timeout bounds how long the query may take.
	Timeout time.Duration
	// MaxAge is the oldest acceptable cached fix.
	MaxAge time.Duration
}

// PositionSensor defines the interface to the courier device's location
// sensor. Failures are always a *domain.SensorError.
type PositionSensor interface {
	// GetPosition returns the current device fix subject to the options.
	GetPosition(ctx context.Context, opts PositionOptions) (domain.Position, error)
}

// IPLocator defines the interface for IP-based geolocation services.
// Providers return heterogeneous payloads; adapters normalize them into a
// single Coordinate shape.
type IPLocator interface {
	// Lookup returns the coarse position associated with the caller's IP.
	Lookup(ctx context.Context) (geo.Coordinate, error)
	// Name identifies the provider for logging.
	Name() string
}
