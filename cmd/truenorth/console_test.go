package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truenorth-nav/truenorth/internal/cache"
	"github.com/truenorth-nav/truenorth/internal/clock"
	"github.com/truenorth-nav/truenorth/internal/haptic"
	"github.com/truenorth-nav/truenorth/internal/history"
	"github.com/truenorth-nav/truenorth/internal/model"
	"github.com/truenorth-nav/truenorth/internal/session"
)

type stubSearcher struct {
	candidates []cache.Candidate
	resolved   model.Destination
}

func (s *stubSearcher) Search(ctx context.Context, query string) ([]cache.Candidate, error) {
	return s.candidates, nil
}

func (s *stubSearcher) Resolve(ctx context.Context, id string) (model.Destination, error) {
	return s.resolved, nil
}

func newConsoleSession(t *testing.T) *session.Session {
	t.Helper()

	cfg := haptic.DefaultConfig()
	cfg.TickInterval = 5 * time.Millisecond

	sess, err := session.New(session.Dependencies{
		Log:          zerolog.Nop(),
		Clock:        clock.NewFake(time.Unix(1700000000, 0)),
		Engine:       haptic.NewRecordingEngine(),
		Store:        history.NewMemory(),
		HapticConfig: cfg,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go sess.Run(ctx)
	t.Cleanup(cancel)
	t.Cleanup(sess.Close)
	return sess
}

func TestConsoleDestCommand(t *testing.T) {
	sess := newConsoleSession(t)

	in := strings.NewReader("dest 37.8,-122.5 Lighthouse Point, Marin\nquit\n")
	var out bytes.Buffer
	runConsole(context.Background(), in, &out, sess, &stubSearcher{}, zerolog.Nop())

	assert.Contains(t, out.String(), "destination: Lighthouse Point")

	assert.Eventually(t, func() bool {
		st := sess.State()
		return st.Destination != nil && st.Destination.DisplayName == "Lighthouse Point"
	}, time.Second, time.Millisecond)
}

func TestConsoleSearchAndGo(t *testing.T) {
	sess := newConsoleSession(t)

	searcher := &stubSearcher{
		candidates: []cache.Candidate{{ID: "p1", Address: "Pier 39, San Francisco"}},
		resolved:   model.NewDestination("Pier 39, San Francisco", model.Coordinate{Latitude: 37.81, Longitude: -122.41}),
	}

	in := strings.NewReader("search pier\ngo 0\nquit\n")
	var out bytes.Buffer
	runConsole(context.Background(), in, &out, sess, searcher, zerolog.Nop())

	assert.Contains(t, out.String(), "Pier 39, San Francisco")
	assert.Contains(t, out.String(), "destination: Pier 39")
}

func TestConsoleRejectsBadInput(t *testing.T) {
	sess := newConsoleSession(t)

	in := strings.NewReader("dest notacoord Somewhere\ngo 5\nbogus\nquit\n")
	var out bytes.Buffer
	runConsole(context.Background(), in, &out, sess, &stubSearcher{}, zerolog.Nop())

	assert.Contains(t, out.String(), "bad coordinate")
	assert.Contains(t, out.String(), "no such search result")
	assert.Contains(t, out.String(), "unknown command")
	assert.Nil(t, sess.State().Destination)
}

func TestConsoleStatusBeforeFix(t *testing.T) {
	sess := newConsoleSession(t)

	in := strings.NewReader("status\nquit\n")
	var out bytes.Buffer
	runConsole(context.Background(), in, &out, sess, &stubSearcher{}, zerolog.Nop())

	assert.Contains(t, out.String(), "waiting for position fix")
	assert.Contains(t, out.String(), "no destination set")
}
