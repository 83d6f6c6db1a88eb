package adapters

import (
	"context"
	"fmt"

	"delivery-geo-engine/internal/features/geocoding/domain"

	"googlemaps.github.io/maps"
)

// GoogleAdapter implements forward and reverse geocoding using the Google
// Maps Geocoding API.
type GoogleAdapter struct {
	client *maps.Client
}

// NewGoogleAdapter creates a new GoogleAdapter with the given API key.
func NewGoogleAdapter(apiKey string) (*GoogleAdapter, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleAdapter{client: client}, nil
}

// Search resolves address text to candidate matches, best match first.
// An empty slice with a nil error means the address was not found.
func (a *GoogleAdapter) Search(ctx context.Context, text string) ([]domain.Match, error) {
	results, err := a.client.Geocode(ctx, &maps.GeocodingRequest{Address: text})
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}

	matches := make([]domain.Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, domain.Match{
			Lat:         r.Geometry.Location.Lat,
			Lng:         r.Geometry.Location.Lng,
			DisplayName: r.FormattedAddress,
		})
	}

	return matches, nil
}

// Reverse returns a human-readable address for the given coordinates.
func (a *GoogleAdapter) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	results, err := a.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	})
	if err != nil {
		return "", fmt.Errorf("maps api error: %w", err)
	}

	if len(results) == 0 {
		return "", fmt.Errorf("no address found for %f,%f", lat, lng)
	}

	return results[0].FormattedAddress, nil
}
