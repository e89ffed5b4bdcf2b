// Package stream serves live session state to UI clients over WebSocket.
// Every published state snapshot is broadcast as a JSON envelope; slow
// clients drop frames rather than backing up the session.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Message type constants for the envelope.
const (
	TypeState       = "state"
	TypeCulmination = "culmination"
)

const (
	clientSendSize = 64
	writeWait      = 10 * time.Second
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type client struct {
	conn *ws.Conn
	send chan []byte
}

// Server accepts WebSocket clients on /ws and broadcasts to all of them.
type Server struct {
	log      zerolog.Logger
	upgrader ws.Upgrader
	httpSrv  *http.Server

	mu      sync.Mutex
	clients map[*client]struct{}
}

func New(addr string, log zerolog.Logger) *Server {
	s := &Server{
		log:     log,
		clients: make(map[*client]struct{}),
		upgrader: ws.Upgrader{
			// local UI clients only, no origin policy
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	s.httpSrv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Start begins listening. It returns immediately; serve errors are logged.
func (s *Server) Start() {
	go func() {
		s.log.Info().Str("addr", s.httpSrv.Addr).Msg("State stream listening")
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("State stream server failed")
		}
	}()
}

// Shutdown closes the listener and all client connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
	s.mu.Unlock()
	return s.httpSrv.Shutdown(ctx)
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast sends one envelope to every connected client. Full client queues
// drop the frame.
func (s *Server) Broadcast(msgType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("type", msgType).Msg("Failed to marshal stream payload")
		return
	}
	data, err := json.Marshal(Envelope{Type: msgType, Payload: raw})
	if err != nil {
		s.log.Error().Err(err).Str("type", msgType).Msg("Failed to marshal stream envelope")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientSendSize)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("Stream client connected")

	go s.writeLoop(c)
	go s.readLoop(c)
}

// writeLoop drains the client's queue onto the socket. It exits when the
// queue closes or a write fails.
func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(ws.TextMessage, data); err != nil {
			s.drop(c)
			return
		}
	}
}

// readLoop discards inbound frames; its job is to notice the close.
func (s *Server) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.drop(c)
			return
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
	c.conn.Close()
}
