package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/couchcryptid/geo-distance-service/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerTo_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, &config.Config{LogLevel: "warn", LogFormat: "json"})

	logger.Info("dropped")
	logger.Warn("kept", "place", "Paris")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "Paris", line["place"])
	assert.NotContains(t, buf.String(), "dropped")
}

func TestNewLoggerTo_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, &config.Config{LogLevel: "DEBUG", LogFormat: "TEXT"})

	logger.Debug("geocode", "kind", "not_found")

	assert.Contains(t, buf.String(), "msg=geocode")
	assert.Contains(t, buf.String(), "kind=not_found")
}

func TestNewLoggerTo_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, &config.Config{LogLevel: "bogus", LogFormat: "text"})

	logger.Debug("dropped")
	logger.Info("kept")

	assert.Contains(t, buf.String(), "msg=kept")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestNewLogger_InstallsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := NewLogger(&config.Config{LogLevel: "error", LogFormat: "json"})

	assert.Same(t, logger, slog.Default())
	assert.False(t, logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestMetrics_RegisterOnFreshRegistry(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	for _, c := range m.collectors() {
		require.NoError(t, reg.Register(c))
	}

	m.GeocodeRequests.WithLabelValues("success").Inc()
	m.Reports.WithLabelValues("done").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GeocodeRequests.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Reports.WithLabelValues("done")))
}
