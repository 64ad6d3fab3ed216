// Package geo contains pure geographic computation helpers.
package geo

import (
	"math"

	"medidrop/internal/types"
)

const earthRadiusKm = 6371.0

// DefaultRouteFactor inflates straight-line distance to approximate the extra
// length of real roads and flight corridors.
const DefaultRouteFactor = 1.18

// DistanceKm returns the great-circle distance in kilometres between a and b.
func DistanceKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// RouteDistanceKm is DistanceKm scaled by factor. A non-positive factor means
// DefaultRouteFactor.
func RouteDistanceKm(a, b types.Point, factor float64) float64 {
	if factor <= 0 {
		factor = DefaultRouteFactor
	}
	return DistanceKm(a, b) * factor
}

// Interpolate moves linearly from a to b in lat/lng space; t is clamped to
// [0,1]. This ignores earth curvature and is only meant for short hops inside
// one service region.
func Interpolate(a, b types.Point, t float64) types.Point {
	switch {
	case math.IsNaN(t) || t < 0:
		t = 0
	case t >= 1:
		return b
	}
	return types.Point{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
