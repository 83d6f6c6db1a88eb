package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"delivery-geo-engine/internal/core/geo"
	"delivery-geo-engine/internal/core/httpclient"
)

// IPAPIAdapter implements ports.IPLocator against the ip-api.com JSON API.
type IPAPIAdapter struct {
	baseURL string
	client  *http.Client
}

// NewIPAPIAdapter creates a new IPAPIAdapter for the given base URL.
func NewIPAPIAdapter(baseURL string) *IPAPIAdapter {
	return &IPAPIAdapter{
		baseURL: baseURL,
		client:  httpclient.New(5 * time.Second),
	}
}

// ipAPIResponse represents the ip-api.com payload: numeric lat/lon plus an
// in-band status field.
type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Lookup returns the coarse position associated with the caller's IP.
func (a *IPAPIAdapter) Lookup(ctx context.Context) (geo.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL, nil)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Coordinate{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var decoded ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if decoded.Status != "success" {
		return geo.Coordinate{}, fmt.Errorf("lookup failed: %s", decoded.Message)
	}

	c := geo.Coordinate{Lat: decoded.Lat, Lng: decoded.Lon}
	if !c.Valid() {
		return geo.Coordinate{}, geo.ErrInvalidCoordinate
	}

	return c, nil
}

// Name identifies the provider for logging.
func (a *IPAPIAdapter) Name() string { return "ip-api" }
