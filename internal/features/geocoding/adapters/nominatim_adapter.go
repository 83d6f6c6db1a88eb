package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"delivery-geo-engine/internal/core/httpclient"
	"delivery-geo-engine/internal/core/logger"
	"delivery-geo-engine/internal/features/geocoding/domain"

	"go.uber.org/zap"
)

// NominatimAdapter implements forward and reverse geocoding against a
// Nominatim-compatible JSON API.
type NominatimAdapter struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewNominatimAdapter creates a new NominatimAdapter for the given base URL.
func NewNominatimAdapter(baseURL string) *NominatimAdapter {
	return &NominatimAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpclient.New(15 * time.Second),
		logger:  logger.Named("nominatim"),
	}
}

// nominatimResult represents one entry of the Nominatim search response.
// Nominatim serializes coordinates as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// nominatimReverse represents the Nominatim reverse response.
type nominatimReverse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

type httpStatusError struct {
	Code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Code)
}

// Search resolves address text to candidate matches, best match first.
// An empty slice with a nil error means the address was not found.
func (a *NominatimAdapter) Search(ctx context.Context, text string) ([]domain.Match, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("format", "json")
	q.Set("limit", "1")

	endpoint := a.baseURL + "/search?" + q.Encode()

	body, err := a.getWithRetry(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	matches := make([]domain.Match, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lng, lngErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lngErr != nil {
			return nil, fmt.Errorf("malformed coordinates in geocode response: lat=%q lon=%q", r.Lat, r.Lon)
		}

		matches = append(matches, domain.Match{
			Lat:         lat,
			Lng:         lng,
			DisplayName: r.DisplayName,
		})
	}

	return matches, nil
}

// Reverse returns a human-readable address for the given coordinates.
func (a *NominatimAdapter) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("format", "json")

	endpoint := a.baseURL + "/reverse?" + q.Encode()

	body, err := a.getWithRetry(ctx, endpoint)
	if err != nil {
		return "", err
	}

	var result nominatimReverse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode reverse geocode response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("reverse geocode failed: %s", result.Error)
	}

	return result.DisplayName, nil
}

// getWithRetry performs a GET, retrying transient failures (429, 5xx,
// network errors) with exponential backoff while respecting context
// cancellation.
func (a *NominatimAdapter) getWithRetry(ctx context.Context, endpoint string) ([]byte, error) {
	const maxAttempts = 3
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := a.get(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case http.StatusTooManyRequests,
				http.StatusInternalServerError,
				http.StatusBadGateway,
				http.StatusServiceUnavailable,
				http.StatusGatewayTimeout:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		a.logger.Warn("Retrying geocoding request",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

func (a *NominatimAdapter) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
