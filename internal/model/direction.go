package model

import "math"

// Direction is one of the eight compass octants.
type Direction int

const (
	North Direction = iota
	Northeast
	East
	Southeast
	South
	Southwest
	West
	Northwest
)

var directionNames = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func (d Direction) String() string {
	if d < North || d > Northwest {
		return "N"
	}
	return directionNames[d]
}

// DirectionForHeading maps a heading in degrees to its compass octant using
// 45-degree bins centered on each cardinal and intercardinal point, with
// wraparound at 0/360 (so 337.5 up to 22.5 is N).
func DirectionForHeading(heading float64) Direction {
	h := math.Mod(heading, 360)
	if h < 0 {
		h += 360
	}
	return Direction(int(math.Floor((h+22.5)/45)) % 8)
}
