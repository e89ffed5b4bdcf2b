package geomath

import (
	"math"
	"testing"

	"github.com/truenorth-nav/truenorth/internal/model"
)

func TestBearing_Cardinal(t *testing.T) {
	origin := model.Coordinate{Latitude: 0, Longitude: 0}

	tests := []struct {
		name string
		to   model.Coordinate
		want float64
	}{
		{"due north", model.Coordinate{Latitude: 1, Longitude: 0}, 0},
		{"due east", model.Coordinate{Latitude: 0, Longitude: 1}, 90},
		{"due south", model.Coordinate{Latitude: -1, Longitude: 0}, 180},
		{"due west", model.Coordinate{Latitude: 0, Longitude: -1}, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(origin, tt.to)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("Bearing() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestBearing_Range(t *testing.T) {
	coords := []model.Coordinate{
		{Latitude: 40.7829, Longitude: -73.9654},
		{Latitude: 51.5074, Longitude: -0.1278},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 35.6762, Longitude: 139.6503},
		{Latitude: 0, Longitude: 179.9},
		{Latitude: 0, Longitude: -179.9},
	}

	for _, from := range coords {
		for _, to := range coords {
			if from.Equal(to) {
				continue
			}
			b := Bearing(from, to)
			if b < 0 || b >= 360 {
				t.Errorf("Bearing(%v, %v) = %f, out of [0,360)", from, to, b)
			}
		}
	}
}

func TestDistanceMiles_Known(t *testing.T) {
	// Central Park to Times Square, roughly 2.3 miles.
	centralPark := model.Coordinate{Latitude: 40.7829, Longitude: -73.9654}
	timesSquare := model.Coordinate{Latitude: 40.7580, Longitude: -73.9855}

	d := DistanceMiles(centralPark, timesSquare)
	if d < 1.9 || d > 2.3 {
		t.Errorf("DistanceMiles() = %f, want roughly 2 miles", d)
	}
}

func TestDistanceMiles_Properties(t *testing.T) {
	a := model.Coordinate{Latitude: 40.7829, Longitude: -73.9654}
	b := model.Coordinate{Latitude: 51.5074, Longitude: -0.1278}

	if d := DistanceMiles(a, a); d != 0 {
		t.Errorf("DistanceMiles(a, a) = %f, want 0", d)
	}

	ab := DistanceMiles(a, b)
	ba := DistanceMiles(b, a)
	if ab < 0 {
		t.Errorf("DistanceMiles(a, b) = %f, want non-negative", ab)
	}
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("DistanceMiles not symmetric: %f vs %f", ab, ba)
	}
}

func TestSignedAngularDifference(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{5, 355, 10},
		{355, 5, -10},
		{0, 0, 0},
		{180, 0, 180},
		{0, 180, 180},
		{90, 270, 180},
		{10, 350, 20},
		{350, 10, -20},
		{720, 0, 0},
		{-5, 5, -10},
	}

	for _, tt := range tests {
		got := SignedAngularDifference(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("SignedAngularDifference(%f, %f) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
		if got <= -180 || got > 180 {
			t.Errorf("SignedAngularDifference(%f, %f) = %f, out of (-180,180]", tt.a, tt.b, got)
		}
	}
}

func TestNormalizeBearing(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{365, 5},
		{-5, 355},
		{-360, 0},
		{725, 5},
	}

	for _, tt := range tests {
		if got := NormalizeBearing(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeBearing(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}
