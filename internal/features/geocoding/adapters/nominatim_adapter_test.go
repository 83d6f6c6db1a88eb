package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNominatimAdapter_Search verifies parsing of the string-typed
// coordinates in a Nominatim search response.
func TestNominatimAdapter_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "123 main st", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"40.7128","lon":"-74.0060","display_name":"Main St, New York"}]`))
	}))
	defer srv.Close()

	adapter := NewNominatimAdapter(srv.URL)

	matches, err := adapter.Search(context.Background(), "123 main st")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 40.7128, matches[0].Lat)
	assert.Equal(t, -74.0060, matches[0].Lng)
	assert.Equal(t, "Main St, New York", matches[0].DisplayName)
}

// TestNominatimAdapter_SearchNotFound verifies an empty result array comes
// back as an empty slice with no error.
func TestNominatimAdapter_SearchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	adapter := NewNominatimAdapter(srv.URL)

	matches, err := adapter.Search(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// TestNominatimAdapter_SearchMalformedCoordinates verifies unparsable
// coordinates are reported as an error rather than zero values.
func TestNominatimAdapter_SearchMalformedCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"not-a-number","lon":"-74.0060"}]`))
	}))
	defer srv.Close()

	adapter := NewNominatimAdapter(srv.URL)

	_, err := adapter.Search(context.Background(), "bad payload")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed coordinates")
}

// TestNominatimAdapter_RetriesTransientFailures verifies a 503 is retried
// and the eventual success is returned.
func TestNominatimAdapter_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"1.5","lon":"2.5","display_name":"somewhere"}]`))
	}))
	defer srv.Close()

	adapter := NewNominatimAdapter(srv.URL)

	matches, err := adapter.Search(context.Background(), "flaky")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, attempts)
}

// TestNominatimAdapter_DoesNotRetryClientErrors verifies a 400 fails
// immediately with no second attempt.
func TestNominatimAdapter_DoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	adapter := NewNominatimAdapter(srv.URL)

	_, err := adapter.Search(context.Background(), "bad request")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

// TestNominatimAdapter_Reverse verifies the reverse endpoint and error field
// handling.
func TestNominatimAdapter_Reverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "40.7128", r.URL.Query().Get("lat"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name":"City Hall, New York"}`))
	}))
	defer srv.Close()

	adapter := NewNominatimAdapter(srv.URL)

	name, err := adapter.Reverse(context.Background(), 40.7128, -74.0060)
	require.NoError(t, err)
	assert.Equal(t, "City Hall, New York", name)
}

// TestNominatimAdapter_ReverseUnableToGeocode verifies the in-band error
// field Nominatim uses for unresolvable coordinates.
func TestNominatimAdapter_ReverseUnableToGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	adapter := NewNominatimAdapter(srv.URL)

	_, err := adapter.Reverse(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unable to geocode")
}
