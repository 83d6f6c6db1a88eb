package handler

import (
	"delivery-geo-engine/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
)

// TrackingHandler handles HTTP requests for tracking membership.
type TrackingHandler struct {
	tracker *service.Tracker
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(tracker *service.Tracker) *TrackingHandler {
	return &TrackingHandler{
		tracker: tracker,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// statusResponse reports whether an order is being tracked.
type statusResponse struct {
	// OrderID is the order the status refers to.
	OrderID string `json:"order_id"`
	// Tracking is true while the order receives position pushes.
	Tracking bool `json:"tracking"`
}

// Start begins position pushes for the order.
func (h *TrackingHandler) Start(c *fiber.Ctx) error {
	orderID := c.Params("orderID")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "order id is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	h.tracker.Start(orderID)
	return c.JSON(statusResponse{OrderID: orderID, Tracking: true})
}

// Stop ends position pushes for the order.
func (h *TrackingHandler) Stop(c *fiber.Ctx) error {
	orderID := c.Params("orderID")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "order id is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	h.tracker.Stop(orderID)
	return c.JSON(statusResponse{OrderID: orderID, Tracking: false})
}

// Status reports whether the order is currently tracked.
func (h *TrackingHandler) Status(c *fiber.Ctx) error {
	orderID := c.Params("orderID")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "order id is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(statusResponse{
		OrderID:  orderID,
		Tracking: h.tracker.IsTracking(orderID),
	})
}
