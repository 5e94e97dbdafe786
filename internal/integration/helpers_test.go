package integration_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/geo-distance-service/internal/adapter/opencage"
	"github.com/couchcryptid/geo-distance-service/internal/distance"
	"github.com/couchcryptid/geo-distance-service/internal/observability"
)

const testAPIKey = "integration-key"

// knownPlaces is the fake provider's gazetteer. "Outage" makes the provider
// fail with a 503.
var knownPlaces = map[string][2]float64{
	"New York":    {40.7128, -74.0060},
	"Los Angeles": {34.0522, -118.2437},
	"London":      {51.5074, -0.1278},
	"Paris":       {48.8566, 2.3522},
	"Berlin":      {52.5200, 13.4050},
}

type fakeProvider struct {
	*httptest.Server
	requests atomic.Int64
}

// startFakeProvider serves OpenCage-shaped responses from knownPlaces.
func startFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	fp := &fakeProvider{}
	fp.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fp.requests.Add(1)

		q := r.URL.Query()
		if q.Get("key") != testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		place := q.Get("q")
		if place == "Outage" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		type geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		}
		type result struct {
			Geometry  geometry `json:"geometry"`
			Formatted string   `json:"formatted"`
		}
		results := []result{}
		if c, ok := knownPlaces[place]; ok {
			results = append(results, result{Geometry: geometry{Lat: c[0], Lng: c[1]}, Formatted: place})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results":       results,
			"total_results": len(results),
		})
	}))
	t.Cleanup(fp.Close)
	return fp
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newDistanceService wires the real OpenCage client against the fake provider.
func newDistanceService(fp *fakeProvider, metrics *observability.Metrics) *distance.Service {
	client := opencage.NewClient(testAPIKey, fp.URL, 5*time.Second, metrics, discardLogger())
	return distance.NewService(client, metrics, discardLogger())
}
