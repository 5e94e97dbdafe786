// Package distance resolves two place names and reports the great-circle
// distance between them.
package distance

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/geo-distance-service/internal/domain"
	"github.com/couchcryptid/geo-distance-service/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Service geocodes both places in parallel and computes the haversine
// distance. It holds no per-request state and is safe for concurrent use.
type Service struct {
	geocoder domain.Geocoder
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewService creates a Service backed by geocoder.
func NewService(geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		geocoder: geocoder,
		metrics:  metrics,
		logger:   logger,
	}
}

// ComputeDistance always returns a report. When either lookup fails the
// report lists every failed place and no distance is computed; nothing is
// retried.
func (s *Service) ComputeDistance(ctx context.Context, place1, place2 string) domain.DistanceReport {
	places := [2]string{place1, place2}
	var coords [2]domain.GeoCoordinate
	var errs [2]error

	// Each goroutine owns one slot, so the results need no locking.
	var g errgroup.Group
	for i, raw := range places {
		p, err := domain.NormalizePlace(raw)
		if err != nil {
			errs[i] = &domain.GeocodeError{Place: raw, Kind: domain.KindInvalidQuery, Err: err}
			continue
		}
		places[i] = p
		g.Go(func() error {
			coords[i], errs[i] = s.geocoder.Geocode(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	var failures []domain.PlaceFailure
	for i, err := range errs {
		if err != nil {
			failures = append(failures, domain.FailureFromError(places[i], err))
		}
	}

	var report domain.DistanceReport
	if len(failures) > 0 {
		report = domain.NewFailedReport(places[0], places[1], failures...)
	} else {
		report = domain.NewDoneReport(places[0], places[1], coords[0], coords[1])
	}

	s.record(report)
	return report
}

// CheckReadiness reports whether a geocoder is configured.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.geocoder == nil {
		return errors.New("no geocoder configured")
	}
	return nil
}

func (s *Service) record(report domain.DistanceReport) {
	s.metrics.Reports.WithLabelValues(string(report.Status)).Inc()

	if km, ok := report.Distance(); ok {
		s.metrics.ComputedDistance.Observe(km)
		s.logger.Debug("distance computed",
			"place1", report.Place1,
			"place2", report.Place2,
			"distance_km", report.RoundedKm(),
		)
		return
	}

	kinds := make([]string, 0, len(report.Failures))
	for _, f := range report.Failures {
		kinds = append(kinds, f.Place+"="+string(f.Kind))
	}
	s.logger.Debug("distance lookup failed",
		"place1", report.Place1,
		"place2", report.Place2,
		"failures", kinds,
	)
}
