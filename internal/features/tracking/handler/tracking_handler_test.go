package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	locdomain "delivery-geo-engine/internal/features/location/domain"
	"delivery-geo-engine/internal/features/tracking/domain"
	"delivery-geo-engine/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLocationSource is a mock implementation of LocationSource for testing.
type mockLocationSource struct{}

// ResolveCurrent implements LocationSource.
func (m *mockLocationSource) ResolveCurrent(_ context.Context) locdomain.ResolvedLocation {
	return locdomain.ResolvedLocation{Confidence: locdomain.ConfidenceDefault}
}

// mockPublisher is a mock implementation of RealtimePublisher for testing.
type mockPublisher struct{}

// Publish implements RealtimePublisher.
func (m *mockPublisher) Publish(_ context.Context, _ domain.PositionUpdate) error {
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *TrackingHandler) {
	t.Helper()

	tracker := service.NewTracker(&mockLocationSource{}, &mockPublisher{}, time.Second)
	handler := NewTrackingHandler(tracker)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Post("/tracking/:orderID/start", handler.Start)
	app.Post("/tracking/:orderID/stop", handler.Stop)
	app.Get("/tracking/:orderID", handler.Status)

	return app, handler
}

// TestTrackingHandler_StartStopStatus verifies the full membership lifecycle
// over HTTP.
func TestTrackingHandler_StartStopStatus(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/tracking/order-1/start", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var status statusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "order-1", status.OrderID)
	assert.True(t, status.Tracking)

	resp, err = app.Test(httptest.NewRequest("GET", "/tracking/order-1", nil))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status.Tracking)

	resp, err = app.Test(httptest.NewRequest("POST", "/tracking/order-1/stop", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/tracking/order-1", nil))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.False(t, status.Tracking)
}

// TestTrackingHandler_StatusUntracked verifies an unknown order reports
// tracking false rather than an error.
func TestTrackingHandler_StatusUntracked(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/tracking/never-started", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var status statusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.False(t, status.Tracking)
}
