package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestClient(t *testing.T, s *Server) *ws.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(s.serveWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastReachesClient(t *testing.T) {
	s := New("localhost:0", zerolog.Nop())
	conn := dialTestClient(t, s)

	require.Eventually(t, func() bool {
		return s.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	type payload struct {
		Heading float64 `json:"heading"`
	}
	s.Broadcast(TypeState, payload{Heading: 42})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, TypeState, env.Type)

	var p payload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, 42.0, p.Heading)
}

func TestClientDisconnectRemoved(t *testing.T) {
	s := New("localhost:0", zerolog.Nop())
	conn := dialTestClient(t, s)

	require.Eventually(t, func() bool {
		return s.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool {
		return s.ClientCount() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestBroadcastWithNoClients(t *testing.T) {
	s := New("localhost:0", zerolog.Nop())
	// must not panic or block
	s.Broadcast(TypeState, map[string]int{"x": 1})
}
