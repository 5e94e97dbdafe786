package domain

import (
	"fmt"
	"math"
	"strings"
)

// ReportStatus is the terminal state of a distance lookup.
type ReportStatus string

const (
	StatusDone   ReportStatus = "done"
	StatusFailed ReportStatus = "failed"
)

// PlaceFailure records why one of the two places could not be resolved.
type PlaceFailure struct {
	Place   string      `json:"place"`
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message,omitempty"`
}

// DistanceReport is the outcome of one distance lookup. DistanceKm, From and
// To are set only when Status is StatusDone; Failures only when it is
// StatusFailed. Build reports with NewDoneReport or NewFailedReport.
type DistanceReport struct {
	Place1     string         `json:"place1"`
	Place2     string         `json:"place2"`
	Status     ReportStatus   `json:"status"`
	DistanceKm *float64       `json:"distance_km,omitempty"`
	From       *GeoCoordinate `json:"from,omitempty"`
	To         *GeoCoordinate `json:"to,omitempty"`
	Failures   []PlaceFailure `json:"failures,omitempty"`
}

// NewDoneReport computes the distance between two resolved places.
func NewDoneReport(place1, place2 string, from, to GeoCoordinate) DistanceReport {
	km := DistanceKm(from, to)
	return DistanceReport{
		Place1:     place1,
		Place2:     place2,
		Status:     StatusDone,
		DistanceKm: &km,
		From:       &from,
		To:         &to,
	}
}

// NewFailedReport builds a report for a lookup where at least one place failed.
func NewFailedReport(place1, place2 string, failures ...PlaceFailure) DistanceReport {
	return DistanceReport{
		Place1:   place1,
		Place2:   place2,
		Status:   StatusFailed,
		Failures: append([]PlaceFailure(nil), failures...),
	}
}

// FailureFromError converts a geocoder error into a PlaceFailure for place.
func FailureFromError(place string, err error) PlaceFailure {
	return PlaceFailure{
		Place:   place,
		Kind:    KindOf(err),
		Message: err.Error(),
	}
}

// Distance returns the computed distance and whether the lookup succeeded.
func (r DistanceReport) Distance() (float64, bool) {
	if r.Status != StatusDone || r.DistanceKm == nil {
		return 0, false
	}
	return *r.DistanceKm, true
}

// RoundedKm returns the distance rounded to two decimal places, or 0 for a
// failed report.
func (r DistanceReport) RoundedKm() float64 {
	km, ok := r.Distance()
	if !ok {
		return 0
	}
	return math.Round(km*100) / 100
}

// Text renders the user-facing sentence for the report. The figure is
// RoundedKm, so the sentence and the distance_km field always agree.
func (r DistanceReport) Text() string {
	if _, ok := r.Distance(); ok {
		return fmt.Sprintf("The distance between %s and %s is %.2f km.", r.Place1, r.Place2, r.RoundedKm())
	}

	parts := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		parts = append(parts, fmt.Sprintf("%q (%s)", f.Place, f.Kind.Describe()))
	}
	if len(parts) == 0 {
		return "Error: Could not calculate the distance."
	}
	return "Error: Could not calculate the distance. Unable to resolve " + strings.Join(parts, " and ") + "."
}
