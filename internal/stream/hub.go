package stream

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// sendBuffer bounds each client's outbound queue. At 60 frames/s a stalled
// client fills it in about a second and gets dropped rather than applying
// backpressure to the animation loop.
const sendBuffer = 64

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Hub tracks connected renderer clients and fans frames out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	logger  zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		logger:  logger.With().Str("component", "stream").Logger(),
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues a payload for every client. Clients whose queue is full
// are disconnected.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	stalled := []*client{}
	for _, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stalled {
		h.logger.Warn().Str("client", c.id).Msg("dropping stalled client")
		h.remove(c)
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

// remove unregisters the client and signals writePump to exit. The send
// channel is never closed; a late sender (a chat turn finishing after the
// disconnect) just queues into an abandoned buffer.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	h.mu.Unlock()

	close(c.done)
	c.conn.Close()
}

// writePump drains the client's queue onto the socket.
func (h *Hub) writePump(c *client) {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.remove(c)
				return
			}
		}
	}
}
