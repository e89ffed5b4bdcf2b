// Package fuser maintains the single current position snapshot and
// recomputes bearing, distance, and alignment error whenever new sensor data
// arrives or the destination changes.
package fuser

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/truenorth-nav/truenorth/internal/clock"
	"github.com/truenorth-nav/truenorth/internal/geomath"
	"github.com/truenorth-nav/truenorth/internal/model"
)

// GeocodeRequestFunc asks the session to start an asynchronous reverse
// geocode for the given coordinate. The result comes back later through
// OnAddressResolved on the same serialized update path.
type GeocodeRequestFunc func(model.Coordinate)

// Fuser fuses position and heading streams into one coherent snapshot. It is
// not safe for concurrent use; all calls must come from the session's single
// update path.
type Fuser struct {
	clock clock.Clock
	log   zerolog.Logger

	requestGeocode  GeocodeRequestFunc
	refreshInterval time.Duration
	lastGeocodeAt   time.Time

	snapshot   model.PositionSnapshot
	hasFix     bool
	hasHeading bool

	destination *model.Destination

	reading    model.AlignmentReading
	hasReading bool
}

// Option configures a Fuser.
type Option func(*Fuser)

// WithGeocode attaches a reverse-geocode requester with the given refresh
// rate limit. A non-positive interval keeps the default; it must never mean
// "geocode on every fix".
func WithGeocode(request GeocodeRequestFunc, refreshInterval time.Duration) Option {
	return func(f *Fuser) {
		f.requestGeocode = request
		if refreshInterval > 0 {
			f.refreshInterval = refreshInterval
		}
	}
}

// New creates a Fuser with no data and no destination.
func New(clk clock.Clock, log zerolog.Logger, opts ...Option) *Fuser {
	if clk == nil {
		clk = clock.System()
	}
	f := &Fuser{
		clock:           clk,
		log:             log,
		refreshInterval: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// OnPositionUpdate replaces the snapshot's coordinate, carrying over heading,
// place, and elevation from the previous snapshot. The reverse geocoder is
// asked for a fresh address at most once per refresh interval; a stale label
// in between is acceptable.
func (f *Fuser) OnPositionUpdate(coord model.Coordinate) {
	next := f.snapshot
	next.Coordinate = coord
	f.snapshot = next
	f.hasFix = true

	if f.requestGeocode != nil {
		now := f.clock.Now()
		if f.lastGeocodeAt.IsZero() || now.Sub(f.lastGeocodeAt) >= f.refreshInterval {
			f.lastGeocodeAt = now
			f.requestGeocode(coord)
		}
	}

	f.recompute()
}

// OnHeadingUpdate replaces the snapshot's heading field only.
func (f *Fuser) OnHeadingUpdate(headingDeg float64) {
	next := f.snapshot
	next.Heading = geomath.NormalizeBearing(headingDeg)
	f.snapshot = next
	f.hasHeading = true

	f.recompute()
}

// OnAddressResolved applies a reverse-geocode result onto whatever the
// current snapshot is, touching only the place and elevation fields. A stale
// response therefore never clobbers a newer coordinate or heading.
func (f *Fuser) OnAddressResolved(place string, elevationFeet float64) {
	next := f.snapshot
	next.Place = place
	next.ElevationFeet = elevationFeet
	f.snapshot = next
}

// SetDestination replaces the destination and recomputes. A nil destination
// clears it; the reading becomes undefined.
func (f *Fuser) SetDestination(d *model.Destination) {
	f.destination = d
	f.recompute()
}

// Destination returns the current destination, or nil.
func (f *Fuser) Destination() *model.Destination {
	return f.destination
}

// Snapshot returns the current fused snapshot. ok is false until the first
// position fix has arrived.
func (f *Fuser) Snapshot() (model.PositionSnapshot, bool) {
	return f.snapshot, f.hasFix
}

// Heading returns the current heading in degrees. ok is false until the first
// heading sample has arrived; the zero heading must not be read as north.
func (f *Fuser) Heading() (float64, bool) {
	return f.snapshot.Heading, f.hasHeading
}

// Reading returns the current alignment reading. ok is false until a
// position fix, a heading sample, and a destination all exist; callers must
// treat that as "no data yet", not as zero alignment.
func (f *Fuser) Reading() (model.AlignmentReading, bool) {
	return f.reading, f.hasReading
}

func (f *Fuser) recompute() {
	if !f.hasFix || !f.hasHeading || f.destination == nil {
		f.hasReading = false
		return
	}

	bearing := geomath.Bearing(f.snapshot.Coordinate, f.destination.Coordinate)
	f.reading = model.AlignmentReading{
		Bearing:       bearing,
		DistanceMiles: geomath.DistanceMiles(f.snapshot.Coordinate, f.destination.Coordinate),
		Error:         geomath.SignedAngularDifference(f.snapshot.Heading, bearing),
	}
	f.hasReading = true
}
