package service

import (
	"context"
	"time"

	"delivery-geo-engine/internal/core/logger"
	"delivery-geo-engine/internal/features/tracking/domain"
	"delivery-geo-engine/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// Tracker periodically resolves the courier position and pushes it to every
// tracked order's channel.
//
// One position is resolved per tick and fanned out to all tracked orders.
// Default-tier locations are never published: a fabricated fallback position
// on a live map is worse than a gap, so those ticks are skipped.
type Tracker struct {
	set       *domain.TrackedSet
	locations ports.LocationSource
	publisher ports.RealtimePublisher
	interval  time.Duration
	logger    *zap.Logger
}

// NewTracker creates a Tracker pushing on the given interval.
func NewTracker(locations ports.LocationSource, publisher ports.RealtimePublisher, interval time.Duration) *Tracker {
	return &Tracker{
		set:       domain.NewTrackedSet(),
		locations: locations,
		publisher: publisher,
		interval:  interval,
		logger:    logger.Named("tracker"),
	}
}

// Start begins tracking the order. Idempotent.
func (t *Tracker) Start(orderID string) {
	t.set.Start(orderID)
	t.logger.Info("Started tracking order", zap.String("order_id", orderID))
}

// Stop ends tracking for the order. Idempotent.
func (t *Tracker) Stop(orderID string) {
	t.set.Stop(orderID)
	t.logger.Info("Stopped tracking order", zap.String("order_id", orderID))
}

// IsTracking reports whether the order is currently tracked.
func (t *Tracker) IsTracking(orderID string) bool {
	return t.set.IsTracking(orderID)
}

// Run drives the push loop until ctx is cancelled. Intended to be launched
// as a goroutine from the composition root.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info("Tracking push loop started", zap.Duration("interval", t.interval))

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Tracking push loop stopped")
			return
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

// tick resolves the current position once and publishes it for every
// tracked order.
func (t *Tracker) tick(ctx context.Context) {
	orders := t.set.Snapshot()
	if len(orders) == 0 {
		return
	}

	location := t.locations.ResolveCurrent(ctx)
	if location.IsDefault() {
		t.logger.Debug("Skipping push, only default-tier location available",
			zap.Int("tracked_orders", len(orders)),
		)
		return
	}

	for _, orderID := range orders {
		update := domain.PositionUpdate{
			OrderID:        orderID,
			Lat:            location.Coordinate.Lat,
			Lng:            location.Coordinate.Lng,
			AccuracyMeters: location.AccuracyMeters,
			Confidence:     location.Confidence,
			Timestamp:      location.ResolvedAt,
		}
		if err := t.publisher.Publish(ctx, update); err != nil {
			t.logger.Warn("Failed to publish position update",
				zap.String("order_id", orderID),
				zap.Error(err),
			)
		}
	}
}
