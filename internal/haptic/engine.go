package haptic

import (
	"github.com/rs/zerolog"

	"github.com/truenorth-nav/truenorth/internal/queue"
)

// PulseKind distinguishes the engine requests.
type PulseKind int

const (
	// PulseTransient is a one-shot click.
	PulseTransient PulseKind = iota
	// PulseContinuous updates the ongoing feedback buzz.
	PulseContinuous
	// PulseStop ends continuous feedback.
	PulseStop
)

// Pulse is a single request sent to the haptic engine.
type Pulse struct {
	Kind      PulseKind
	Intensity float64 // [0, 1]
	Sharpness float64 // [0, 1]
}

// Engine renders haptic pulses on the device. It is a best-effort,
// fire-and-forget sink: implementations swallow their own failures, since
// haptic feedback is never navigation-critical.
type Engine interface {
	Transient(intensity, sharpness float64)
	Continuous(intensity, sharpness float64)
	Stop()
}

// NoopEngine is the sink used when the device lacks haptic hardware. The
// check happens once at startup; every call afterward is a cheap no-op.
type NoopEngine struct{}

func (NoopEngine) Transient(intensity, sharpness float64)  {}
func (NoopEngine) Continuous(intensity, sharpness float64) {}
func (NoopEngine) Stop()                                   {}

// Detect returns the given engine, or a NoopEngine when the device reports
// no haptic support (engine == nil).
func Detect(engine Engine, log zerolog.Logger) Engine {
	if engine == nil {
		log.Warn().Msg("No haptic engine available, feedback disabled")
		return NoopEngine{}
	}
	return engine
}

// RecordingEngine captures every pulse in order. Used by tests and by the
// state streamer to relay pulses to connected clients.
type RecordingEngine struct {
	pulses *queue.Queue[Pulse]
}

// NewRecordingEngine creates an empty RecordingEngine.
func NewRecordingEngine() *RecordingEngine {
	return &RecordingEngine{pulses: queue.New[Pulse]()}
}

func (r *RecordingEngine) Transient(intensity, sharpness float64) {
	r.pulses.Push(Pulse{Kind: PulseTransient, Intensity: intensity, Sharpness: sharpness})
}

func (r *RecordingEngine) Continuous(intensity, sharpness float64) {
	r.pulses.Push(Pulse{Kind: PulseContinuous, Intensity: intensity, Sharpness: sharpness})
}

func (r *RecordingEngine) Stop() {
	r.pulses.Push(Pulse{Kind: PulseStop})
}

// Drain returns and clears the recorded pulses.
func (r *RecordingEngine) Drain() []Pulse {
	return r.pulses.Drain()
}

// Len returns the number of recorded pulses.
func (r *RecordingEngine) Len() int {
	return r.pulses.Len()
}
