package haptic

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/truenorth-nav/truenorth/internal/clock"
)

// State is the coarse phase of the feedback state machine.
type State int

const (
	// StateIdle: no destination, no data, or error outside the outer zone.
	StateIdle State = iota
	// StateApproaching: inside the outer zone, feedback active, hold time
	// possibly accumulating.
	StateApproaching
	// StateDeadZone: culmination has fired; all feedback suppressed until
	// the error exceeds the outer-zone radius again.
	StateDeadZone
)

func (s State) String() string {
	switch s {
	case StateApproaching:
		return "approaching"
	case StateDeadZone:
		return "deadzone"
	default:
		return "idle"
	}
}

// Session tracks zone occupancy and hold time for one destination approach
// and drives the haptic engine. It is not safe for concurrent use; all calls
// must come from the session's single update path. Hold timing is wall-clock
// based so feedback is independent of the sensor update rate.
type Session struct {
	cfg    Config
	clock  clock.Clock
	engine Engine
	log    zerolog.Logger

	state     State
	hasSample bool
	lastErr   float64

	// alignEnteredAt is set while the error is within the alignment zone;
	// precisionEnteredAt only while within the precision sub-zone.
	alignEnteredAt     time.Time
	precisionEnteredAt time.Time

	feedbackActive bool

	// culminations is atomic so monitoring can read it while the update
	// path fires clicks. Everything else is single-goroutine only.
	culminations atomic.Uint64
}

// NewSession creates a haptic session in the idle state.
func NewSession(cfg Config, clk clock.Clock, engine Engine, log zerolog.Logger) *Session {
	if clk == nil {
		clk = clock.System()
	}
	return &Session{
		cfg:    cfg,
		clock:  clk,
		engine: Detect(engine, log),
		log:    log,
	}
}

// Config returns the active tuning.
func (s *Session) Config() Config {
	return s.cfg
}

// State returns the current machine state.
func (s *Session) State() State {
	return s.state
}

// Culminations returns the number of culmination clicks fired since creation.
// Safe to call from any goroutine.
func (s *Session) Culminations() uint64 {
	return s.culminations.Load()
}

// Reset hard-resets the machine to idle. Called whenever a new destination is
// set, so no feedback for the old destination can fire afterward.
func (s *Session) Reset() {
	s.state = StateIdle
	s.hasSample = false
	s.lastErr = 0
	s.clearClocks()
	s.stopFeedback()
}

// Observe feeds a new signed alignment-error sample into the machine.
func (s *Session) Observe(err float64) {
	s.hasSample = true
	s.lastErr = err
	s.evaluate(s.clock.Now())
}

// ObserveInvalid marks the alignment as undefined (no destination or no
// sensor data yet). Feedback is suppressed entirely.
func (s *Session) ObserveInvalid() {
	s.hasSample = false
	s.state = StateIdle
	s.clearClocks()
	s.stopFeedback()
}

// Tick re-evaluates elapsed hold time against the wall clock. Driven by a
// periodic timer because sensor updates arrive at irregular intervals; a
// missed tick is not compensated.
func (s *Session) Tick() {
	if !s.hasSample {
		return
	}
	s.evaluate(s.clock.Now())
}

// HoldProgress reports culmination progress in [0, 1] as of now.
func (s *Session) HoldProgress() float64 {
	return s.holdProgressAt(s.clock.Now())
}

func (s *Session) evaluate(now time.Time) {
	abs := math.Abs(s.lastErr)

	// Dead zone: suppress everything until the error leaves the outer zone.
	if s.state == StateDeadZone {
		if abs > s.cfg.OuterZoneDeg {
			s.state = StateIdle
		}
		return
	}

	if s.cfg.Classify(abs) == ZoneNone {
		s.state = StateIdle
		s.clearClocks()
		s.stopFeedback()
		return
	}

	s.state = StateApproaching

	if abs <= s.cfg.AlignZoneDeg {
		if s.alignEnteredAt.IsZero() {
			s.alignEnteredAt = now
			s.log.Debug().Float64("error", s.lastErr).Msg("Entered alignment zone")
		}
		if abs <= s.cfg.PrecisionZoneDeg {
			if s.precisionEnteredAt.IsZero() {
				s.precisionEnteredAt = now
			}
		} else {
			// The precision timestamp is only valid while inside the
			// sub-zone.
			s.precisionEnteredAt = time.Time{}
		}
	} else {
		// Back out to the outer band: no partial credit carries across.
		s.clearClocks()
	}

	progress := s.holdProgressAt(now)

	if !s.precisionEnteredAt.IsZero() &&
		progress >= 1 &&
		now.Sub(s.precisionEnteredAt) >= s.cfg.PrecisionMin {
		s.culminate()
		return
	}

	intensity, sharpness := s.cfg.Signal(abs, progress)
	s.engine.Continuous(intensity, sharpness)
	s.feedbackActive = true
}

// holdProgressAt combines the capped alignment-zone portion with uncapped
// precision-zone time. Outside the precision sub-zone, progress can reach at
// most HoldCapFraction of the required hold, which prevents culmination from
// hovering near the zone's outer edge.
func (s *Session) holdProgressAt(now time.Time) float64 {
	if s.alignEnteredAt.IsZero() {
		return 0
	}

	capped := time.Duration(s.cfg.HoldCapFraction * float64(s.cfg.Hold))

	var p time.Duration
	if !s.precisionEnteredAt.IsZero() {
		base := s.precisionEnteredAt.Sub(s.alignEnteredAt)
		if base > capped {
			base = capped
		}
		p = base + now.Sub(s.precisionEnteredAt)
	} else {
		p = now.Sub(s.alignEnteredAt)
		if p > capped {
			p = capped
		}
	}

	progress := float64(p) / float64(s.cfg.Hold)
	if progress > 1 {
		progress = 1
	}
	return progress
}

func (s *Session) culminate() {
	s.engine.Transient(CulminationIntensity, CulminationSharpness)
	s.stopFeedback()
	s.state = StateDeadZone
	s.clearClocks()
	s.culminations.Add(1)
	s.log.Info().Float64("error", s.lastErr).Msg("Culmination fired")
}

func (s *Session) clearClocks() {
	s.alignEnteredAt = time.Time{}
	s.precisionEnteredAt = time.Time{}
}

func (s *Session) stopFeedback() {
	if s.feedbackActive {
		s.engine.Stop()
		s.feedbackActive = false
	}
}
