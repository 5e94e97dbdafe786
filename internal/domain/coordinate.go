package domain

import (
	"fmt"
	"math"
)

// GeoCoordinate is a WGS-84 latitude/longitude pair in degrees.
type GeoCoordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewGeoCoordinate validates the ranges lat ∈ [-90, 90] and lon ∈ [-180, 180].
func NewGeoCoordinate(lat, lon float64) (GeoCoordinate, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return GeoCoordinate{}, fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return GeoCoordinate{}, fmt.Errorf("longitude %v out of range [-180, 180]", lon)
	}
	return GeoCoordinate{Lat: lat, Lon: lon}, nil
}

func (c GeoCoordinate) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", c.Lat, c.Lon)
}
