package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startProvider fakes the geocoding API with two known cities.
func startProvider(t *testing.T) {
	t.Helper()
	coords := map[string][2]float64{
		"London": {51.5074, -0.1278},
		"Paris":  {48.8566, 2.3522},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := []map[string]any{}
		if c, ok := coords[r.URL.Query().Get("q")]; ok {
			results = append(results, map[string]any{"geometry": map[string]float64{"lat": c[0], "lng": c[1]}})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"results": results, "total_results": len(results)})
	}))
	t.Cleanup(srv.Close)

	t.Setenv("OPENCAGE_API_KEY", "cli-key")
	t.Setenv("OPENCAGE_BASE_URL", srv.URL)
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("LOG_LEVEL", "error")
}

func TestRun_Text(t *testing.T) {
	startProvider(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-from", "London", "-to", "Paris"}, &stdout, &stderr)

	assert.Equal(t, exitDone, code, stderr.String())
	assert.Equal(t, "The distance between London and Paris is 343.56 km.\n", stdout.String())
}

func TestRun_PositionalArgsJSON(t *testing.T) {
	startProvider(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-json", "London", "Paris"}, &stdout, &stderr)
	require.Equal(t, exitDone, code, stderr.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, "done", out["status"])
	assert.InDelta(t, 343.56, out["distance_km"], 0.01)
	assert.Contains(t, out["message"], "343.56 km")
}

func TestRun_NotFound(t *testing.T) {
	startProvider(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-from", "Atlantis", "-to", "Paris"}, &stdout, &stderr)

	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stdout.String(), `Unable to resolve "Atlantis" (not found).`)
}

func TestRun_Usage(t *testing.T) {
	startProvider(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no places", nil},
		{"one place", []string{"-from", "London"}},
		{"bad flag", []string{"-nope"}},
		{"bad timeout", []string{"-timeout", "0s", "London", "Paris"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, exitUsage, run(context.Background(), tt.args, &stdout, &stderr))
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENCAGE_API_KEY", "")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"London", "Paris"}, &stdout, &stderr)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "OPENCAGE_API_KEY is required")
}
