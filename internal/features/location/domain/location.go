package domain

import (
	"fmt"
	"time"

	"delivery-geo-engine/internal/core/geo"
)

// Confidence labels the provenance and quality of a resolved location.
type Confidence string

const (
	// ConfidencePrecise indicates a fresh high-accuracy device fix.
	ConfidencePrecise Confidence = "precise"
	// ConfidenceApproximate indicates a device fix of reduced accuracy or freshness.
	ConfidenceApproximate Confidence = "approximate"
	// ConfidenceIP indicates a coarse position derived from IP geolocation.
	ConfidenceIP Confidence = "ip-based"
	// ConfidenceDefault indicates the fixed last-resort fallback coordinate.
	ConfidenceDefault Confidence = "default"
)

// ResolvedLocation is the outcome of one resolution attempt. It is never
// mutated; re-resolution produces a new instance.
type ResolvedLocation struct {
	// Coordinate is the resolved position.
	Coordinate geo.Coordinate `json:"coordinate"`
	// Confidence labels which tier produced the position.
	Confidence Confidence `json:"confidence"`
	// AccuracyMeters is the estimated position error radius, 0 when unknown.
	AccuracyMeters float64 `json:"accuracy_meters,omitempty"`
	// ResolvedAt is when this resolution completed.
	ResolvedAt time.Time `json:"resolved_at"`
}

// IsDefault reports whether this location is the fixed fallback rather than
// a real position.
func (l ResolvedLocation) IsDefault() bool {
	return l.Confidence == ConfidenceDefault
}

// SensorFailureCause classifies why a device sensor query failed.
type SensorFailureCause string

const (
	// CausePermissionDenied means the device refused location access.
	CausePermissionDenied SensorFailureCause = "permission_denied"
	// CauseUnavailable means no usable fix exists (never reported, or stale).
	CauseUnavailable SensorFailureCause = "unavailable"
	// CauseTimeout means the query exceeded its time bound.
	CauseTimeout SensorFailureCause = "timeout"
)

// SensorError is the typed failure returned by device sensor queries. The
// cause feeds caller-facing messaging; tier fallback treats all causes the
// same way.
type SensorError struct {
	// Cause classifies the failure.
	Cause SensorFailureCause
}

func (e *SensorError) Error() string {
	return fmt.Sprintf("device sensor: %s", e.Cause)
}

// Position is a raw device fix as reported by the courier's device.
type Position struct {
	// Coordinate is the reported position.
	Coordinate geo.Coordinate `json:"coordinate"`
	// AccuracyMeters is the device-reported accuracy radius.
	AccuracyMeters float64 `json:"accuracy_meters"`
	// ReportedAt is when the device produced the fix.
	ReportedAt time.Time `json:"reported_at"`
}
