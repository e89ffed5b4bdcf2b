// Package geo handles coordinate persistence and parsing. Stored geometry is
// kept as EPSG:3857 points serialized to WKB, because SQLite has no spatial
// awareness and raw bytes round-trip cleanly; raw WGS84 lat/lon columns sit
// alongside for reads.
package geo

import (
	"errors"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/truenorth-nav/truenorth/internal/model"
)

// ErrInvalidCoordinates is returned when a coordinate string cannot be parsed.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Point3857 converts a WGS84 coordinate into an EPSG:3857 point.
func Point3857(c model.Coordinate) geom.Point {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(c.Longitude, c.Latitude, 0)
	pt, err := geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{X: x, Y: y},
			Z:  0,
		},
	)
	if err != nil {
		// NewPoint only rejects non-finite ordinates. Map those to the
		// empty point rather than handing garbage bytes to storage.
		return geom.Point{}
	}
	return pt
}

// WKB3857 serializes a WGS84 coordinate as an EPSG:3857 point in WKB form,
// suitable for a BLOB column.
func WKB3857(c model.Coordinate) []byte {
	return Point3857(c).AsBinary()
}

// CoordinateFromString parses a "lat,lon" string into a Coordinate.
func CoordinateFromString(s string) (model.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return model.Coordinate{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.Coordinate{}, ErrInvalidCoordinates
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.Coordinate{}, ErrInvalidCoordinates
	}
	return model.Coordinate{Latitude: lat, Longitude: lon}, nil
}
