package handler

import (
	"errors"

	"delivery-geo-engine/internal/core/geo"
	geocoding "delivery-geo-engine/internal/features/geocoding/domain"
	"delivery-geo-engine/internal/features/routing/domain"
	"delivery-geo-engine/internal/features/routing/service"

	"github.com/gofiber/fiber/v2"
)

// RouteHandler handles HTTP requests for route optimization.
type RouteHandler struct {
	optimizer *service.RouteOptimizer
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(optimizer *service.RouteOptimizer) *RouteHandler {
	return &RouteHandler{
		optimizer: optimizer,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// destinationRequest is one requested stop. Either lat/lng or address must
// be set; lat/lng wins when both are present.
type destinationRequest struct {
	// ID is the order identifier for the stop.
	ID string `json:"id"`
	// Address is free-form address text for the stop.
	Address string `json:"address"`
	// Lat is the stop latitude when already known.
	Lat *float64 `json:"lat"`
	// Lng is the stop longitude when already known.
	Lng *float64 `json:"lng"`
	// DisplayName is a human-readable label for the stop.
	DisplayName string `json:"display_name"`
	// Status is the order's delivery status, echoed back untouched.
	Status string `json:"status"`
}

// optimizeRequest is the route optimization payload.
type optimizeRequest struct {
	// Origin is the route starting coordinate.
	Origin geo.Coordinate `json:"origin"`
	// Destinations are the stops to order.
	Destinations []destinationRequest `json:"destinations"`
}

func (r destinationRequest) toDestination() domain.Destination {
	d := domain.Destination{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		Status:      r.Status,
	}

	if r.Lat != nil && r.Lng != nil {
		d.Address = geocoding.AddressFromCoordinate(geo.Coordinate{Lat: *r.Lat, Lng: *r.Lng})
	} else {
		d.Address = geocoding.AddressFromText(r.Address)
	}

	return d
}

// Optimize computes a visiting order for the requested stops. Partial
// failures come back inside the result; only fully invalid input is an
// HTTP error.
func (h *RouteHandler) Optimize(c *fiber.Ctx) error {
	var req optimizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid json body",
			RayID:   c.Locals("requestid").(string),
		})
	}

	destinations := make([]domain.Destination, 0, len(req.Destinations))
	for _, d := range req.Destinations {
		destinations = append(destinations, d.toDestination())
	}

	result, err := h.optimizer.Optimize(c.UserContext(), req.Origin, destinations)
	if err != nil {
		if errors.Is(err, geo.ErrInvalidCoordinate) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: "origin coordinates are out of range",
				RayID:   c.Locals("requestid").(string),
			})
		}
		if errors.Is(err, domain.ErrNoDestinations) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: "at least one destination with an address is required",
				RayID:   c.Locals("requestid").(string),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(result)
}
