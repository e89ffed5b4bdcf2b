// Package session runs the navigation session. All sensor samples, user
// commands, and timer ticks are funneled into one event loop so the fuser and
// haptic state machine are only ever touched from a single goroutine.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/truenorth-nav/truenorth/internal/channel"
	"github.com/truenorth-nav/truenorth/internal/clock"
	"github.com/truenorth-nav/truenorth/internal/dispatcher"
	"github.com/truenorth-nav/truenorth/internal/fuser"
	"github.com/truenorth-nav/truenorth/internal/geocode"
	"github.com/truenorth-nav/truenorth/internal/geomath"
	"github.com/truenorth-nav/truenorth/internal/haptic"
	"github.com/truenorth-nav/truenorth/internal/history"
	"github.com/truenorth-nav/truenorth/internal/logging"
	"github.com/truenorth-nav/truenorth/internal/model"
)

const (
	cmdPosition       = ":POSITION:"
	cmdHeading        = ":HEADING:"
	cmdTick           = ":TICK:"
	cmdGeocodeResult  = ":GEOCODE:RESULT:"
	cmdSetDestination = ":SET:DESTINATION:"
)

const (
	eventQueueSize     = 256
	subscriberBuffer   = 8
	geocodeCallTimeout = 5 * time.Second
)

// State is the published view of the session, rebuilt after every event.
type State struct {
	HasFix       bool
	Position     model.PositionSnapshot
	HasHeading   bool
	Direction    model.Direction
	Destination  *model.Destination
	HasReading   bool
	Reading      model.AlignmentReading
	HapticState  haptic.State
	HoldProgress float64
	Culminations uint64
	Recent       []model.Destination
}

// Stats are counters exposed for monitoring.
type Stats struct {
	Ticks         uint64
	DroppedEvents uint64
	Culminations  uint64
	QueueLen      int
	Subscribers   int
}

// Dependencies wires the session's collaborators.
type Dependencies struct {
	Log            zerolog.Logger
	Clock          clock.Clock
	Engine         haptic.Engine
	Store          history.Store
	Resolver       geocode.Resolver // nil disables reverse geocoding
	HapticConfig   haptic.Config
	HistoryLimit   int
	GeocodeRefresh time.Duration // zero means the fuser default
}

// Session owns the navigation state. Public methods are safe to call from any
// goroutine and never block; mutation happens on the Run loop.
type Session struct {
	log      zerolog.Logger
	clk      clock.Clock
	disp     *dispatcher.Dispatcher
	events   *channel.Buffered[dispatcher.Event]
	fuser    *fuser.Fuser
	haptics  *haptic.Session
	history  *model.History
	store    history.Store
	resolver geocode.Resolver

	tickInterval time.Duration
	ticks        atomic.Uint64
	dropped      atomic.Uint64

	mu          sync.RWMutex
	closed      bool
	state       State
	subscribers map[int]*channel.Buffered[State]
	nextSubID   int
}

// New builds a session and loads persisted destination history.
func New(deps Dependencies) (*Session, error) {
	disp, err := dispatcher.New(logging.NewDispatcherLogger(deps.Log))
	if err != nil {
		return nil, err
	}

	limit := deps.HistoryLimit
	if limit <= 0 {
		limit = model.DefaultHistoryLimit
	}

	s := &Session{
		log:          deps.Log,
		clk:          deps.Clock,
		disp:         disp,
		events:       channel.New[dispatcher.Event](eventQueueSize),
		store:        deps.Store,
		resolver:     deps.Resolver,
		history:      model.NewHistory(limit),
		tickInterval: deps.HapticConfig.TickInterval,
		subscribers:  make(map[int]*channel.Buffered[State]),
	}
	if s.tickInterval <= 0 {
		s.tickInterval = haptic.DefaultConfig().TickInterval
	}

	opts := []fuser.Option{}
	if deps.Resolver != nil {
		opts = append(opts, fuser.WithGeocode(s.requestGeocode, deps.GeocodeRefresh))
	}
	s.fuser = fuser.New(deps.Clock, deps.Log, opts...)
	s.haptics = haptic.NewSession(deps.HapticConfig, deps.Clock, haptic.Detect(deps.Engine, deps.Log), deps.Log)

	if deps.Store != nil {
		stored, err := deps.Store.Load()
		if err != nil {
			deps.Log.Warn().Err(err).Msg("Failed to load destination history")
		} else {
			s.history.Replace(stored)
		}
	}

	s.register()
	s.publish()
	return s, nil
}

func (s *Session) register() {
	s.disp.Register(cmdPosition, s.handlePosition, dispatcher.Logged())
	s.disp.Register(cmdHeading, s.handleHeading)
	s.disp.Register(cmdTick, s.handleTick)
	s.disp.Register(cmdGeocodeResult, s.handleGeocodeResult, dispatcher.Logged())
	s.disp.Register(cmdSetDestination, s.handleSetDestination, dispatcher.Logged())
}

// Run consumes events until the context is cancelled or Close is called.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-s.events.Receive():
			if !ok {
				return nil
			}
			if _, err := s.disp.Dispatch(e); err != nil {
				s.log.Error().Err(err).Str("command", e.Command).Msg("Event handler failed")
			}
		case <-ticker.C:
			s.disp.Dispatch(dispatcher.Event{Command: cmdTick, Timestamp: s.clk.Now()})
		}
	}
}

// Close stops the Run loop. Pending events are still drained; samples
// arriving afterwards are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.events.Close()
}

// PositionUpdate implements sensor.Sink.
func (s *Session) PositionUpdate(coord model.Coordinate) {
	s.enqueue(dispatcher.Event{Command: cmdPosition, Payload: coord, Timestamp: s.clk.Now()})
}

// HeadingUpdate implements sensor.Sink.
func (s *Session) HeadingUpdate(headingDeg float64) {
	s.enqueue(dispatcher.Event{Command: cmdHeading, Payload: headingDeg, Timestamp: s.clk.Now()})
}

// SetDestination queues a destination change. The haptic state machine resets
// when it applies.
func (s *Session) SetDestination(d model.Destination) {
	s.enqueue(dispatcher.Event{Command: cmdSetDestination, Payload: d, Timestamp: s.clk.Now()})
}

func (s *Session) enqueue(e dispatcher.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	if !s.events.TrySend(e) {
		s.dropped.Add(1)
		s.log.Warn().Str("command", e.Command).Msg("Event queue full, sample dropped")
	}
}

// State returns the most recently published state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// HeadingDirection returns the compass octant for the current heading and
// whether a heading sample has arrived yet. A position fix alone is not
// enough; the zero-value heading would otherwise masquerade as north.
func (s *Session) HeadingDirection() (model.Direction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.HasHeading {
		return model.North, false
	}
	return s.state.Direction, true
}

// Stats returns monitoring counters.
func (s *Session) Stats() Stats {
	s.mu.RLock()
	subs := len(s.subscribers)
	s.mu.RUnlock()
	return Stats{
		Ticks:         s.ticks.Load(),
		DroppedEvents: s.dropped.Load(),
		Culminations:  s.haptics.Culminations(),
		QueueLen:      s.events.Len(),
		Subscribers:   subs,
	}
}

// Subscribe registers a state observer. Slow observers miss updates rather
// than stalling the loop. The returned func unsubscribes.
func (s *Session) Subscribe() (<-chan State, func()) {
	ch := channel.New[State](subscriberBuffer)

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			sub.Close()
		}
		s.mu.Unlock()
	}
	return ch.Receive(), cancel
}

func (s *Session) handlePosition(e dispatcher.Event) (any, error) {
	coord := e.Payload.(model.Coordinate)
	s.fuser.OnPositionUpdate(coord)
	s.observeAlignment()
	s.publish()
	return nil, nil
}

func (s *Session) handleHeading(e dispatcher.Event) (any, error) {
	heading := e.Payload.(float64)
	s.fuser.OnHeadingUpdate(heading)
	s.observeAlignment()
	s.publish()
	return nil, nil
}

func (s *Session) handleTick(e dispatcher.Event) (any, error) {
	s.ticks.Add(1)
	s.haptics.Tick()
	s.publish()
	return nil, nil
}

func (s *Session) handleGeocodeResult(e dispatcher.Event) (any, error) {
	place := e.Payload.(geocode.Place)
	s.fuser.OnAddressResolved(place.Locality, place.ElevationMeters*geomath.MetersToFeet)
	s.publish()
	return nil, nil
}

func (s *Session) handleSetDestination(e dispatcher.Event) (any, error) {
	dest := e.Payload.(model.Destination)

	s.history.Push(dest)
	if s.store != nil {
		if err := s.store.Save(s.history.Entries()); err != nil {
			s.log.Error().Err(err).Msg("Failed to persist destination history")
		}
	}

	s.fuser.SetDestination(&dest)
	s.haptics.Reset()
	s.observeAlignment()
	s.publish()
	return nil, nil
}

// observeAlignment feeds the latest alignment error into the haptic machine,
// or marks the signal invalid when no reading is available.
func (s *Session) observeAlignment() {
	if reading, ok := s.fuser.Reading(); ok {
		s.haptics.Observe(reading.Error)
	} else {
		s.haptics.ObserveInvalid()
	}
}

// publish rebuilds the state snapshot and fans it out to subscribers.
// Runs on the loop goroutine only.
func (s *Session) publish() {
	next := State{
		HapticState:  s.haptics.State(),
		HoldProgress: s.haptics.HoldProgress(),
		Culminations: s.haptics.Culminations(),
		Destination:  s.fuser.Destination(),
		Recent:       s.history.Entries(),
	}
	if snap, ok := s.fuser.Snapshot(); ok {
		next.HasFix = true
		next.Position = snap
	}
	if heading, ok := s.fuser.Heading(); ok {
		next.HasHeading = true
		next.Direction = model.DirectionForHeading(heading)
	}
	if reading, ok := s.fuser.Reading(); ok {
		next.HasReading = true
		next.Reading = reading
	}

	s.mu.Lock()
	s.state = next
	for _, sub := range s.subscribers {
		sub.TrySend(next)
	}
	s.mu.Unlock()
}

// requestGeocode is invoked by the fuser, on the loop goroutine, when the
// current fix deserves a fresh reverse geocode. The lookup runs off-loop and
// its result is re-queued as an event.
func (s *Session) requestGeocode(coord model.Coordinate) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), geocodeCallTimeout)
		defer cancel()

		place, err := s.resolver.Reverse(ctx, coord.Latitude, coord.Longitude)
		if err != nil {
			s.log.Warn().Err(err).Msg("Reverse geocode failed")
			return
		}
		s.enqueue(dispatcher.Event{Command: cmdGeocodeResult, Payload: place, Timestamp: s.clk.Now()})
	}()
}
