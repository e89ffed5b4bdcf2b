// Package model defines the core value types shared across the navigation
// pipeline: coordinates, position snapshots, destinations, and alignment
// readings.
package model

import "strings"

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Equal reports whether two coordinates are identical.
func (c Coordinate) Equal(other Coordinate) bool {
	return c.Latitude == other.Latitude && c.Longitude == other.Longitude
}

// PositionSnapshot is the fused view of the latest sensor data. It is
// replaced wholesale on every update, never partially mutated.
type PositionSnapshot struct {
	Coordinate    Coordinate `json:"coordinate"`
	Heading       float64    `json:"heading"` // degrees from true north, [0, 360)
	Place         string     `json:"place"`   // reverse-geocoded label, may be stale or empty
	ElevationFeet float64    `json:"elevationFeet"`
}

// Equal compares snapshots by coordinate only. Heading, place, and elevation
// are excluded so the comparison answers "did the position move".
func (s PositionSnapshot) Equal(other PositionSnapshot) bool {
	return s.Coordinate.Equal(other.Coordinate)
}

// Destination is a user-selected navigation target. Immutable once built.
type Destination struct {
	Address     string     `json:"address"`
	DisplayName string     `json:"displayName"`
	Coordinate  Coordinate `json:"coordinate"`
}

// NewDestination builds a Destination, deriving the display name from the
// address: the substring before the first comma, or the whole address when
// there is no comma.
func NewDestination(address string, coord Coordinate) Destination {
	return Destination{
		Address:     address,
		DisplayName: DisplayName(address),
		Coordinate:  coord,
	}
}

// DisplayName extracts the short display form of a full address.
func DisplayName(address string) string {
	if i := strings.Index(address, ","); i >= 0 {
		return address[:i]
	}
	return address
}

// AlignmentReading is the derived navigation state for the current snapshot
// and destination. It is recomputed on every sensor update and never stored.
type AlignmentReading struct {
	Bearing       float64 `json:"bearing"`       // [0, 360) toward the destination
	DistanceMiles float64 `json:"distanceMiles"` // non-negative
	Error         float64 `json:"error"`         // heading - bearing, (-180, 180]; positive = target to the right
}
