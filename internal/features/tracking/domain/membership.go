package domain

import (
	"sync"
	"time"

	locdomain "delivery-geo-engine/internal/features/location/domain"
)

// PositionUpdate is one realtime courier position sample published for a
// tracked order.
type PositionUpdate struct {
	// OrderID identifies the order the position belongs to.
	OrderID string `json:"order_id"`
	// Lat is the courier latitude.
	Lat float64 `json:"lat"`
	// Lng is the courier longitude.
	Lng float64 `json:"lng"`
	// AccuracyMeters is the estimated accuracy radius of the sample.
	AccuracyMeters float64 `json:"accuracy_meters"`
	// Confidence describes which tier produced the position.
	Confidence locdomain.Confidence `json:"confidence"`
	// Timestamp is when the position was resolved.
	Timestamp time.Time `json:"timestamp"`
}

// TrackedSet is the set of orders currently being tracked. Safe for
// concurrent use; the ticker loop reads it while HTTP handlers mutate it.
type TrackedSet struct {
	mu     sync.RWMutex
	orders map[string]struct{}
}

// NewTrackedSet creates an empty TrackedSet.
func NewTrackedSet() *TrackedSet {
	return &TrackedSet{
		orders: make(map[string]struct{}),
	}
}

// Start marks the order as tracked. Starting an already-tracked order is a
// no-op.
func (s *TrackedSet) Start(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[orderID] = struct{}{}
}

// Stop removes the order from the set. Stopping an untracked order is a
// no-op.
func (s *TrackedSet) Stop(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, orderID)
}

// IsTracking reports whether the order is currently tracked.
func (s *TrackedSet) IsTracking(orderID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.orders[orderID]
	return ok
}

// Snapshot returns the tracked order IDs at this instant. The returned
// slice is owned by the caller.
func (s *TrackedSet) Snapshot() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.orders))
	for id := range s.orders {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of tracked orders.
func (s *TrackedSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
