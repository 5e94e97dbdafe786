package opencage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/geo-distance-service/internal/domain"
	"github.com/couchcryptid/geo-distance-service/internal/observability"
)

// DefaultBaseURL is the OpenCage forward geocoding endpoint.
const DefaultBaseURL = "https://api.opencagedata.com/geocode/v1/json"

const (
	// maxErrorBody caps how much of a failed response body ends up in errors and logs.
	maxErrorBody = 512
	// maxResponseBody bounds how much of a successful response is read.
	maxResponseBody = 1 << 20
)

// Client implements domain.Geocoder using the OpenCage Geocoding API.
// It makes exactly one request per call: no retries, no caching.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenCage geocoding client. Every request is bounded by timeout.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode resolves place to the coordinates of the provider's first candidate.
func (c *Client) Geocode(ctx context.Context, place string) (domain.GeoCoordinate, error) {
	query, err := domain.NormalizePlace(place)
	if err != nil {
		return domain.GeoCoordinate{}, &domain.GeocodeError{Place: place, Kind: domain.KindInvalidQuery, Err: err}
	}

	params := url.Values{
		"q":              {query},
		"key":            {c.apiKey},
		"limit":          {"1"},
		"no_annotations": {"1"},
	}

	start := time.Now()
	coord, err := c.doRequest(ctx, place, c.baseURL+"?"+params.Encode())
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		kind := domain.KindOf(err)
		c.metrics.GeocodeRequests.WithLabelValues(string(kind)).Inc()
		c.logger.Warn("geocoding failed",
			"place", place,
			"kind", kind,
			"error", err,
		)
		return domain.GeoCoordinate{}, err
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return coord, nil
}

func (c *Client) doRequest(ctx context.Context, place, fullURL string) (domain.GeoCoordinate, error) {
	fail := func(kind domain.FailureKind, status int, err error) (domain.GeoCoordinate, error) {
		return domain.GeoCoordinate{}, &domain.GeocodeError{Place: place, Kind: kind, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fail(domain.KindProviderError, 0, fmt.Errorf("create request: %w", redact(err)))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(domain.KindNetworkError, 0, fmt.Errorf("geocode request: %w", redact(err)))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail(domain.KindProviderError, resp.StatusCode,
			fmt.Errorf("opencage API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	// The client timeout keeps running while the body streams in, so a stalled
	// or reset body is a transport failure, not a bad payload.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fail(domain.KindNetworkError, resp.StatusCode, fmt.Errorf("read response: %w", redact(err)))
	}

	var ocResp response
	if err := json.Unmarshal(body, &ocResp); err != nil {
		return fail(domain.KindProviderError, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	if len(ocResp.Results) == 0 {
		return fail(domain.KindNotFound, resp.StatusCode, errors.New("no results"))
	}

	first := ocResp.Results[0]
	coord, err := domain.NewGeoCoordinate(first.Geometry.Lat, first.Geometry.Lng)
	if err != nil {
		return fail(domain.KindProviderError, resp.StatusCode, fmt.Errorf("invalid geometry: %w", err))
	}

	c.logger.Debug("geocoded place",
		"place", place,
		"formatted", first.Formatted,
		"lat", coord.Lat,
		"lon", coord.Lon,
		"total_results", ocResp.TotalResults,
	)
	return coord, nil
}

// redact drops the request URL, which carries the API key, from transport errors.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", strings.ToLower(ue.Op), ue.Err)
	}
	return err
}

// OpenCage API response types.

type response struct {
	Results      []result `json:"results"`
	TotalResults int      `json:"total_results"`
}

type result struct {
	Geometry  geometry `json:"geometry"`
	Formatted string   `json:"formatted"`
}

type geometry struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
