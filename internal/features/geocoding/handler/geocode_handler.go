package handler

import (
	"errors"
	"strconv"

	"delivery-geo-engine/internal/core/geo"
	"delivery-geo-engine/internal/features/geocoding/domain"
	"delivery-geo-engine/internal/features/geocoding/service"

	"github.com/gofiber/fiber/v2"
)

// GeocodeHandler handles HTTP requests for address resolution.
type GeocodeHandler struct {
	resolver *service.AddressResolver
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(resolver *service.AddressResolver) *GeocodeHandler {
	return &GeocodeHandler{
		resolver: resolver,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// GeocodeResponse represents a resolved address.
type GeocodeResponse struct {
	// Lat is the resolved latitude.
	Lat float64 `json:"lat"`
	// Lng is the resolved longitude.
	Lng float64 `json:"lng"`
}

// Geocode resolves free-text address to coordinates.
func (h *GeocodeHandler) Geocode(c *fiber.Ctx) error {
	text := c.Query("text")
	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "text query parameter is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	coord, err := h.resolver.Resolve(c.UserContext(), domain.AddressFromText(text))
	if err != nil {
		if errors.Is(err, domain.ErrEmptyAddress) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: "address is empty",
				RayID:   c.Locals("requestid").(string),
			})
		}
		if errors.Is(err, domain.ErrNoResults) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "address not found",
				RayID:   c.Locals("requestid").(string),
			})
		}

		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(GeocodeResponse{Lat: coord.Lat, Lng: coord.Lng})
}

// ReverseResponse represents a reverse-geocoded coordinate.
type ReverseResponse struct {
	// FormattedAddress is the human-readable address for the coordinate.
	FormattedAddress string `json:"formatted_address"`
}

// Reverse converts coordinates to a human-readable address.
func (h *GeocodeHandler) Reverse(c *fiber.Ctx) error {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "lat and lng query parameters are required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	name, err := h.resolver.Describe(c.UserContext(), geo.Coordinate{Lat: lat, Lng: lng})
	if err != nil {
		if errors.Is(err, geo.ErrInvalidCoordinate) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: "coordinates are out of range",
				RayID:   c.Locals("requestid").(string),
			})
		}

		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(ReverseResponse{FormattedAddress: name})
}
