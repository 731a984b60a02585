// Package server exposes a running simulation over HTTP: Prometheus metrics on
// /metrics and a live stream of simulation log events on /ws.
package server

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/jzx17/goscheduler/pkg/sink"
	"github.com/jzx17/goscheduler/pkg/types"
)

// DefaultClientBuffer is the number of events queued per client before new
// events are dropped for that client
const DefaultClientBuffer = 256

// safeConn wraps a WebSocket connection with a mutex to prevent concurrent writes
type safeConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (sc *safeConn) WriteJSON(v interface{}) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.Conn.WriteJSON(v)
}

func (sc *safeConn) WriteClose() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run finished")
	return sc.Conn.WriteMessage(websocket.CloseMessage, msg)
}

type client struct {
	conn   *safeConn
	events chan sink.Event
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.events) })
}

// Hub fans simulation events out to every connected client. Publish never
// blocks, so it is safe to use as a sink.Listener.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	buffer  int
	logger  types.Logger

	published int64
	dropped   int64
}

// NewHub creates a hub. A nil logger discards diagnostics.
func NewHub(logger types.Logger) *Hub {
	if logger == nil {
		logger = types.NewNoOpLogger()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		buffer:  DefaultClientBuffer,
		logger:  logger,
	}
}

// Publish queues ev for every client. Clients whose buffer is full miss the event.
func (h *Hub) Publish(ev sink.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	atomic.AddInt64(&h.published, 1)
	for c := range h.clients {
		select {
		case c.events <- ev:
		default:
			atomic.AddInt64(&h.dropped, 1)
		}
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Stats returns the number of published events and per-client drops
func (h *Hub) Stats() (published, dropped int64) {
	return atomic.LoadInt64(&h.published), atomic.LoadInt64(&h.dropped)
}

// Close disconnects every client after its queued events are sent. Later
// connections are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
}

func (h *Hub) register(conn *websocket.Conn) (*client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, false
	}
	c := &client{
		conn:   &safeConn{Conn: conn},
		events: make(chan sink.Event, h.buffer),
	}
	h.clients[c] = struct{}{}
	return c, true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
}

// writeLoop sends queued events until the client's channel is closed
func (h *Hub) writeLoop(c *client) {
	for ev := range c.events {
		if err := c.conn.WriteJSON(ev); err != nil {
			h.logger.Debug("websocket write failed", types.F("error", err))
			h.unregister(c)
			return
		}
	}
	_ = c.conn.WriteClose()
}
