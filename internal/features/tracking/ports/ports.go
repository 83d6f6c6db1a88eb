package ports

import (
	"context"

	locdomain "delivery-geo-engine/internal/features/location/domain"
	"delivery-geo-engine/internal/features/tracking/domain"
)

// RealtimePublisher defines the interface for pushing position updates to
// subscribers.
type RealtimePublisher interface {
	// Publish delivers one position update for its order's channel.
	Publish(ctx context.Context, update domain.PositionUpdate) error
}

// LocationSource provides the courier's current position. It must always
// produce a location; degraded tiers are expressed through Confidence.
type LocationSource interface {
	ResolveCurrent(ctx context.Context) locdomain.ResolvedLocation
}
