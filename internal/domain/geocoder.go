package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies why a place could not be resolved.
type FailureKind string

const (
	KindNotFound      FailureKind = "not_found"
	KindProviderError FailureKind = "provider_error"
	KindNetworkError  FailureKind = "network_error"
	KindInvalidQuery  FailureKind = "invalid_query"
)

// Describe returns the human-readable phrase used in report text.
func (k FailureKind) Describe() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindProviderError:
		return "geocoding provider error"
	case KindNetworkError:
		return "network error"
	case KindInvalidQuery:
		return "empty location name"
	default:
		return string(k)
	}
}

// ErrEmptyPlace is returned for place names that are blank after trimming.
var ErrEmptyPlace = errors.New("place name is empty")

// GeocodeError is the failure half of a geocode result.
type GeocodeError struct {
	Place      string
	Kind       FailureKind
	StatusCode int // set for KindProviderError when the provider answered
	Err        error
}

func (e *GeocodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("geocode %q: %s", e.Place, e.Kind)
	}
	return fmt.Sprintf("geocode %q: %s: %v", e.Place, e.Kind, e.Err)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from err. Errors that did not come from a
// Geocoder are reported as provider errors.
func KindOf(err error) FailureKind {
	var ge *GeocodeError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	if errors.Is(err, ErrEmptyPlace) {
		return KindInvalidQuery
	}
	return KindProviderError
}

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	// Geocode issues exactly one provider request and returns the first
	// candidate's coordinates, or a *GeocodeError.
	Geocode(ctx context.Context, place string) (GeoCoordinate, error)
}

// NormalizePlace trims surrounding whitespace and rejects blank names.
func NormalizePlace(place string) (string, error) {
	p := strings.TrimSpace(place)
	if p == "" {
		return "", ErrEmptyPlace
	}
	return p, nil
}
