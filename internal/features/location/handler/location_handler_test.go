package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"delivery-geo-engine/internal/core/geo"
	"delivery-geo-engine/internal/features/location/adapters"
	"delivery-geo-engine/internal/features/location/domain"
	"delivery-geo-engine/internal/features/location/ports"
	"delivery-geo-engine/internal/features/location/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *adapters.ReportedPositionSensor) {
	t.Helper()

	sensor := adapters.NewReportedPositionSensor()
	resolver := service.NewLocationResolver(sensor, []ports.IPLocator{}, service.Options{
		SensorTimeout:     time.Second,
		SensorMaxAge:      5 * time.Minute,
		DefaultCoordinate: geo.Coordinate{Lat: 19.0760, Lng: 72.8777},
	})
	handler := NewLocationHandler(resolver, sensor)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Get("/location/current", handler.Current)
	app.Post("/location/report", handler.Report)

	return app, sensor
}

// TestLocationHandler_Current_DefaultWithoutFix verifies the endpoint always
// answers, falling back to the default tier.
func TestLocationHandler_Current_DefaultWithoutFix(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/location/current", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var loc domain.ResolvedLocation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loc))
	assert.Equal(t, domain.ConfidenceDefault, loc.Confidence)
	assert.InDelta(t, 19.0760, loc.Coordinate.Lat, 1e-9)
}

// TestLocationHandler_ReportThenCurrent verifies a reported fix upgrades the
// resolution to the precise tier.
func TestLocationHandler_ReportThenCurrent(t *testing.T) {
	app, _ := newTestApp(t)

	body := `{"lat": 40.4168, "lng": -3.7038, "accuracy_meters": 8}`
	req := httptest.NewRequest("POST", "/location/report", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/location/current", nil))
	require.NoError(t, err)

	var loc domain.ResolvedLocation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loc))
	assert.Equal(t, domain.ConfidencePrecise, loc.Confidence)
	assert.InDelta(t, 40.4168, loc.Coordinate.Lat, 1e-9)
}

// TestLocationHandler_Report_PermissionDenied verifies a denial report is
// accepted and pushes resolution off the sensor tiers.
func TestLocationHandler_Report_PermissionDenied(t *testing.T) {
	app, _ := newTestApp(t)

	body := `{"permission_denied": true}`
	req := httptest.NewRequest("POST", "/location/report", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/location/current", nil))
	require.NoError(t, err)

	var loc domain.ResolvedLocation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loc))
	assert.Equal(t, domain.ConfidenceDefault, loc.Confidence)
}

// TestLocationHandler_Report_OutOfRange verifies coordinate validation on the
// report endpoint.
func TestLocationHandler_Report_OutOfRange(t *testing.T) {
	app, _ := newTestApp(t)

	body := `{"lat": 120, "lng": 0}`
	req := httptest.NewRequest("POST", "/location/report", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "test-ray-id", errResp.RayID)
}
