// Package geomath provides stateless spherical-geometry helpers used by the
// navigation pipeline: great-circle bearing and distance plus signed angular
// differences on the compass circle. All angles are in degrees.
package geomath

import (
	"math"

	"github.com/truenorth-nav/truenorth/internal/model"
)

// EarthRadiusMiles is the mean earth radius in statute miles.
const EarthRadiusMiles = 3958.7613

// MetersToFeet converts meters to feet.
const MetersToFeet = 3.28084

// Bearing returns the initial great-circle bearing in degrees from one
// coordinate to another, clockwise from true north, in [0, 360).
func Bearing(from, to model.Coordinate) float64 {
	phi1 := radians(from.Latitude)
	phi2 := radians(to.Latitude)
	deltaLon := radians(to.Longitude - from.Longitude)

	y := math.Sin(deltaLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLon)

	return NormalizeBearing(degrees(math.Atan2(y, x)))
}

// DistanceMiles returns the great-circle distance between two coordinates in
// statute miles using the haversine formula. The result is non-negative and
// symmetric, and zero when the coordinates are equal.
func DistanceMiles(a, b model.Coordinate) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMiles * c
}

// SignedAngularDifference returns a-b normalized into (-180, 180], so that
// SignedAngularDifference(5, 355) == 10 rather than -350. Positive means a is
// clockwise of b.
func SignedAngularDifference(a, b float64) float64 {
	diff := math.Mod(a-b, 360)
	if diff > 180 {
		diff -= 360
	} else if diff <= -180 {
		diff += 360
	}
	return diff
}

// NormalizeBearing wraps an angle in degrees into [0, 360).
func NormalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
