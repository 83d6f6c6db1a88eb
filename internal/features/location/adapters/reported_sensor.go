package adapters

import (
	"context"
	"sync"
	"time"

	"delivery-geo-engine/internal/features/location/domain"
	"delivery-geo-engine/internal/features/location/ports"
)

// highAccuracyMaxMeters is the accuracy radius above which a fix no longer
// satisfies a high-accuracy query.
const highAccuracyMaxMeters = 100.0

// ReportedPositionSensor implements ports.PositionSensor from fixes pushed
// by the courier's device over HTTP. The engine runs server-side, so "the
// device sensor" is whatever the device most recently reported.
// Safe for concurrent use.
type ReportedPositionSensor struct {
	mu     sync.RWMutex
	latest *domain.Position
	denied bool

	// now is swappable for tests.
	now func() time.Time
}

// NewReportedPositionSensor creates a sensor with no fix yet.
func NewReportedPositionSensor() *ReportedPositionSensor {
	return &ReportedPositionSensor{
		now: time.Now,
	}
}

// Report records a new device fix, clearing any previous permission denial.
func (s *ReportedPositionSensor) Report(pos domain.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = &pos
	s.denied = false
}

// ReportDenied records that the device refused location permission.
func (s *ReportedPositionSensor) ReportDenied() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = nil
	s.denied = true
}

// GetPosition returns the latest fix if it satisfies the options.
func (s *ReportedPositionSensor) GetPosition(ctx context.Context, opts ports.PositionOptions) (domain.Position, error) {
	if err := ctx.Err(); err != nil {
		return domain.Position{}, &domain.SensorError{Cause: domain.CauseTimeout}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.denied {
		return domain.Position{}, &domain.SensorError{Cause: domain.CausePermissionDenied}
	}
	if s.latest == nil {
		return domain.Position{}, &domain.SensorError{Cause: domain.CauseUnavailable}
	}

	fix := *s.latest

	if opts.MaxAge > 0 && s.now().Sub(fix.ReportedAt) > opts.MaxAge {
		return domain.Position{}, &domain.SensorError{Cause: domain.CauseUnavailable}
	}

	if opts.HighAccuracy && fix.AccuracyMeters > highAccuracyMaxMeters {
		return domain.Position{}, &domain.SensorError{Cause: domain.CauseUnavailable}
	}

	return fix, nil
}
