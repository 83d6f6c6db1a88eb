package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"delivery-geo-engine/internal/core/geo"
	"delivery-geo-engine/internal/core/httpclient"
)

// IPInfoAdapter implements ports.IPLocator against the ipinfo.io JSON API.
type IPInfoAdapter struct {
	baseURL string
	client  *http.Client
}

// NewIPInfoAdapter creates a new IPInfoAdapter for the given base URL.
func NewIPInfoAdapter(baseURL string) *IPInfoAdapter {
	return &IPInfoAdapter{
		baseURL: baseURL,
		client:  httpclient.New(5 * time.Second),
	}
}

// ipInfoResponse represents the ipinfo.io payload, which packs both
// coordinates into a single "lat,lng" string.
type ipInfoResponse struct {
	Loc string `json:"loc"`
}

// Lookup returns the coarse position associated with the caller's IP.
func (a *IPInfoAdapter) Lookup(ctx context.Context) (geo.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL, nil)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Coordinate{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var decoded ipInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to decode response: %w", err)
	}

	parts := strings.Split(decoded.Loc, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, fmt.Errorf("malformed loc field: %q", decoded.Loc)
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lngErr != nil {
		return geo.Coordinate{}, fmt.Errorf("malformed loc field: %q", decoded.Loc)
	}

	c := geo.Coordinate{Lat: lat, Lng: lng}
	if !c.Valid() {
		return geo.Coordinate{}, geo.ErrInvalidCoordinate
	}

	return c, nil
}

// Name identifies the provider for logging.
func (a *IPInfoAdapter) Name() string { return "ipinfo" }
