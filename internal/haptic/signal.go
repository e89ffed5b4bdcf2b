// Package haptic implements the alignment feedback core: a pure signal model
// mapping alignment error to pulse intensity, and a wall-clock state machine
// that decides when the culminating click fires.
package haptic

import (
	"time"

	"github.com/spf13/viper"
)

// Zone classifies an absolute alignment error into nested feedback bands.
type Zone int

const (
	// ZoneNone means the error is outside the outer zone; no feedback.
	ZoneNone Zone = iota
	// ZoneOuter is the approach band: soft feedback ramping up as the
	// error shrinks.
	ZoneOuter
	// ZoneAlign is the band where hold time accumulates toward culmination.
	ZoneAlign
	// ZonePrecision is the innermost band; the device must sit here for a
	// minimum continuous duration before culmination can fire.
	ZonePrecision
)

func (z Zone) String() string {
	switch z {
	case ZoneOuter:
		return "outer"
	case ZoneAlign:
		return "align"
	case ZonePrecision:
		return "precision"
	default:
		return "none"
	}
}

// Config holds the haptic feedback tuning. Zone radii are degrees of
// alignment error; all values are configuration, not behavior.
type Config struct {
	OuterZoneDeg     float64
	AlignZoneDeg     float64
	PrecisionZoneDeg float64
	Hold             time.Duration // total hold required for culmination
	PrecisionMin     time.Duration // min continuous time in precision zone
	HoldCapFraction  float64       // share of Hold creditable outside precision
	TickInterval     time.Duration
	MinIntensity     float64 // intensity at the outer-zone edge
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		OuterZoneDeg:     15,
		AlignZoneDeg:     5,
		PrecisionZoneDeg: 2,
		Hold:             1500 * time.Millisecond,
		PrecisionMin:     300 * time.Millisecond,
		HoldCapFraction:  0.8,
		TickInterval:     100 * time.Millisecond,
		MinIntensity:     0.25,
	}
}

// ConfigFromViper builds a Config from the loaded application configuration.
func ConfigFromViper() Config {
	return Config{
		OuterZoneDeg:     viper.GetFloat64("haptic.outerZoneDeg"),
		AlignZoneDeg:     viper.GetFloat64("haptic.alignZoneDeg"),
		PrecisionZoneDeg: viper.GetFloat64("haptic.precisionZoneDeg"),
		Hold:             time.Duration(viper.GetFloat64("haptic.holdSeconds") * float64(time.Second)),
		PrecisionMin:     time.Duration(viper.GetFloat64("haptic.precisionMinSeconds") * float64(time.Second)),
		HoldCapFraction:  viper.GetFloat64("haptic.holdCapFraction"),
		TickInterval:     time.Duration(viper.GetInt("haptic.tickMillis")) * time.Millisecond,
		MinIntensity:     viper.GetFloat64("haptic.minIntensity"),
	}
}

// Classify returns the zone for an absolute alignment error in degrees.
func (c Config) Classify(absErr float64) Zone {
	switch {
	case absErr <= c.PrecisionZoneDeg:
		return ZonePrecision
	case absErr <= c.AlignZoneDeg:
		return ZoneAlign
	case absErr <= c.OuterZoneDeg:
		return ZoneOuter
	default:
		return ZoneNone
	}
}

// Intensity anchors of the base curve at the zone boundaries. The curve is
// piecewise linear and continuous so feedback never weakens as the error
// shrinks.
const (
	alignEdgeIntensity     = 0.55
	precisionEdgeIntensity = 0.70
	centerIntensity        = 0.85
	holdBoost              = 0.15

	outerSharpness     = 0.3
	alignSharpness     = 0.5
	precisionSharpness = 0.7

	// CulminationIntensity and CulminationSharpness define the single
	// strong click fired when alignment has been held long enough.
	CulminationIntensity = 1.0
	CulminationSharpness = 1.0
)

// Signal maps an absolute alignment error and the current hold progress
// (0..1) to a continuous-pulse intensity and sharpness, both in [0, 1].
// Outside the outer zone both are zero.
func (c Config) Signal(absErr, holdProgress float64) (intensity, sharpness float64) {
	if holdProgress < 0 {
		holdProgress = 0
	} else if holdProgress > 1 {
		holdProgress = 1
	}

	var base float64
	switch c.Classify(absErr) {
	case ZoneNone:
		return 0, 0
	case ZoneOuter:
		base = lerp(absErr, c.OuterZoneDeg, c.AlignZoneDeg, c.MinIntensity, alignEdgeIntensity)
		sharpness = outerSharpness
	case ZoneAlign:
		base = lerp(absErr, c.AlignZoneDeg, c.PrecisionZoneDeg, alignEdgeIntensity, precisionEdgeIntensity)
		sharpness = alignSharpness
	case ZonePrecision:
		base = lerp(absErr, c.PrecisionZoneDeg, 0, precisionEdgeIntensity, centerIntensity)
		sharpness = precisionSharpness
	}

	intensity = base + holdBoost*holdProgress
	if intensity > 1 {
		intensity = 1
	}
	return intensity, sharpness
}

// lerp interpolates linearly between (x0, y0) and (x1, y1), clamping outside
// the span.
func lerp(x, x0, x1, y0, y1 float64) float64 {
	if x0 == x1 {
		return y1
	}
	t := (x - x0) / (x1 - x0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return y0 + t*(y1-y0)
}
