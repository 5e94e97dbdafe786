package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	newYork    = GeoCoordinate{Lat: 40.7128, Lon: -74.0060}
	losAngeles = GeoCoordinate{Lat: 34.0522, Lon: -118.2437}
	london     = GeoCoordinate{Lat: 51.5074, Lon: -0.1278}
	paris      = GeoCoordinate{Lat: 48.8566, Lon: 2.3522}
	sydney     = GeoCoordinate{Lat: -33.8688, Lon: 151.2093}
)

func TestDistanceKm_KnownPairs(t *testing.T) {
	tests := []struct {
		name string
		a, b GeoCoordinate
		want float64
		tol  float64
	}{
		{name: "new york to los angeles", a: newYork, b: losAngeles, want: 3936, tol: 20},
		{name: "london to paris", a: london, b: paris, want: 343.5, tol: 1},
		{name: "equator quarter turn", a: GeoCoordinate{0, 0}, b: GeoCoordinate{0, 90}, want: math.Pi / 2 * EarthRadiusKm, tol: 1e-6},
		{name: "antipodal", a: GeoCoordinate{0, 0}, b: GeoCoordinate{0, 180}, want: math.Pi * EarthRadiusKm, tol: 1e-6},
		{name: "pole to pole", a: GeoCoordinate{90, 0}, b: GeoCoordinate{-90, 0}, want: math.Pi * EarthRadiusKm, tol: 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistanceKm(tt.a, tt.b), tt.tol)
		})
	}
}

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	for _, p := range []GeoCoordinate{newYork, losAngeles, sydney, {90, 180}, {-90, -180}, {0, 0}} {
		assert.Equal(t, 0.0, DistanceKm(p, p), "point %s", p)
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	points := []GeoCoordinate{newYork, losAngeles, london, paris, sydney, {0, 0}, {89.9, -179.9}}
	for _, a := range points {
		for _, b := range points {
			assert.InDelta(t, DistanceKm(a, b), DistanceKm(b, a), 1e-9, "%s <-> %s", a, b)
		}
	}
}

func TestDistanceKm_BoundedByHalfCircumference(t *testing.T) {
	upper := math.Pi * EarthRadiusKm
	for lat1 := -90.0; lat1 <= 90; lat1 += 15 {
		for lon1 := -180.0; lon1 <= 180; lon1 += 45 {
			for lat2 := -90.0; lat2 <= 90; lat2 += 30 {
				for lon2 := -180.0; lon2 <= 180; lon2 += 60 {
					d := DistanceKm(GeoCoordinate{lat1, lon1}, GeoCoordinate{lat2, lon2})
					require.False(t, math.IsNaN(d))
					require.GreaterOrEqual(t, d, 0.0)
					require.LessOrEqual(t, d, upper+1e-9)
				}
			}
		}
	}
}

func TestDistanceKm_MonotonicAlongMeridian(t *testing.T) {
	origin := GeoCoordinate{Lat: 0, Lon: 10}
	prev := 0.0
	for lat := 1.0; lat <= 90; lat++ {
		d := DistanceKm(origin, GeoCoordinate{Lat: lat, Lon: 10})
		assert.Greater(t, d, prev, "lat %v", lat)
		prev = d
	}
}

func TestNewGeoCoordinate(t *testing.T) {
	c, err := NewGeoCoordinate(40.7128, -74.0060)
	require.NoError(t, err)
	assert.Equal(t, newYork, c)

	_, err = NewGeoCoordinate(90.1, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")

	_, err = NewGeoCoordinate(0, -180.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longitude")

	_, err = NewGeoCoordinate(math.NaN(), 0)
	require.Error(t, err)

	_, err = NewGeoCoordinate(-90, 180)
	require.NoError(t, err)
}
