// Package monitor periodically reports session health: counters to the log
// and a status file, telemetry points to InfluxDB when enabled.
package monitor

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/truenorth-nav/truenorth/internal/influx"
	"github.com/truenorth-nav/truenorth/internal/session"
)

const statusInterval = 1 * time.Second

// Dependencies holds collaborators for the monitor service.
type Dependencies struct {
	Log        zerolog.Logger
	Session    *session.Session
	Influx     *influx.Manager // nil disables telemetry
	StatusPath string          // empty disables the status file
}

// Service runs the periodic status loop.
type Service struct {
	deps      Dependencies
	mu        sync.RWMutex
	isRunning bool
	stopChan  chan struct{}
}

func NewService(deps Dependencies) *Service {
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status loop is active.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Status returns the current session counters as indented JSON.
func (s *Service) Status() string {
	stats := s.deps.Session.Stats()
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return `{"error": "` + err.Error() + `"}`
	}
	return string(data)
}

// Start launches the status goroutine. Calling Start on a running service is
// a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go s.run()
}

// Stop halts the status loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
		s.isRunning = false
	}
}

func (s *Service) run() {
	var statusFile *os.File
	if s.deps.StatusPath != "" {
		var err error
		statusFile, err = os.Create(s.deps.StatusPath)
		if err != nil {
			s.deps.Log.Error().Err(err).Str("path", s.deps.StatusPath).Msg("Error creating status file")
		} else {
			defer statusFile.Close()
		}
	}

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			stats := s.deps.Session.Stats()
			state := s.deps.Session.State()

			s.deps.Log.Debug().
				Uint64("ticks", stats.Ticks).
				Uint64("dropped", stats.DroppedEvents).
				Uint64("culminations", stats.Culminations).
				Int("queueLen", stats.QueueLen).
				Int("subscribers", stats.Subscribers).
				Str("hapticState", state.HapticState.String()).
				Msg("Session status")

			if statusFile != nil {
				statusFile.Truncate(0)
				statusFile.Seek(0, 0)
				statusFile.WriteString(s.Status() + "\n")
			}

			if s.deps.Influx != nil {
				if err := s.deps.Influx.WritePoint(influx.BucketPerformance, influx.StatsPoint(stats)); err != nil {
					s.deps.Log.Error().Err(err).Msg("Error writing session stats to InfluxDB")
				}
			}
		}
	}
}
