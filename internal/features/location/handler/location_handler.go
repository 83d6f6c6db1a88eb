package handler

import (
	"time"

	"delivery-geo-engine/internal/core/geo"
	"delivery-geo-engine/internal/features/location/adapters"
	"delivery-geo-engine/internal/features/location/domain"
	"delivery-geo-engine/internal/features/location/service"

	"github.com/gofiber/fiber/v2"
)

// LocationHandler handles HTTP requests for current-location resolution and
// device position reports.
type LocationHandler struct {
	resolver *service.LocationResolver
	sensor   *adapters.ReportedPositionSensor
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(resolver *service.LocationResolver, sensor *adapters.ReportedPositionSensor) *LocationHandler {
	return &LocationHandler{
		resolver: resolver,
		sensor:   sensor,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// Current resolves and returns the courier's current location. The response
// always carries a confidence tier; "default" means no real position was
// available.
func (h *LocationHandler) Current(c *fiber.Ctx) error {
	loc := h.resolver.ResolveCurrent(c.UserContext())
	return c.JSON(loc)
}

// reportRequest is the device position report payload.
type reportRequest struct {
	// Lat is the reported latitude.
	Lat float64 `json:"lat"`
	// Lng is the reported longitude.
	Lng float64 `json:"lng"`
	// AccuracyMeters is the device-reported accuracy radius.
	AccuracyMeters float64 `json:"accuracy_meters"`
	// PermissionDenied marks that the device refused location access.
	PermissionDenied bool `json:"permission_denied"`
}

// Report records a device fix (or a permission denial) for the sensor tier.
func (h *LocationHandler) Report(c *fiber.Ctx) error {
	var req reportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid json body",
			RayID:   c.Locals("requestid").(string),
		})
	}

	if req.PermissionDenied {
		h.sensor.ReportDenied()
		return c.SendStatus(fiber.StatusNoContent)
	}

	coord := geo.Coordinate{Lat: req.Lat, Lng: req.Lng}
	if !coord.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "coordinates are out of range",
			RayID:   c.Locals("requestid").(string),
		})
	}

	h.sensor.Report(domain.Position{
		Coordinate:     coord,
		AccuracyMeters: req.AccuracyMeters,
		ReportedAt:     time.Now(),
	})

	return c.SendStatus(fiber.StatusNoContent)
}
