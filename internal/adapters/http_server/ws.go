package httpserver

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"tripmarket/internal/domain"
)

// Event is what UI clients receive over the push channel: user-facing
// notices (the notification sink) and "reload" ticks after cache swaps.
type Event struct {
	Kind     string `json:"kind"` // notice|reload
	Message  string `json:"message,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// client owns one connection. All writes go through the send channel so
// a single goroutine is ever calling the conn's write methods.
type client struct {
	conn *websocket.Conn
	send chan Event
}

func (c *client) writeLoop() {
	for e := range c.send {
		if err := c.conn.WriteJSON(e); err != nil {
			// Force the read loop to notice and unregister.
			_ = c.conn.Close()
			return
		}
	}
}

// Hub fans events out to connected websocket clients. It implements
// domain.Notifier and, per that contract, never returns or raises an
// error toward the caller.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: map[*client]struct{}{},
	}
}

func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan Event, 32)}
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop()

	// Reads are only needed to notice the close.
	go func() {
		defer h.drop(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.send)
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

// Notify implements domain.Notifier.
func (h *Hub) Notify(message string, severity domain.Severity) {
	h.broadcast(Event{Kind: "notice", Message: message, Severity: string(severity)})
}

// NotifyReload tells clients the cache snapshot was swapped.
func (h *Hub) NotifyReload() {
	h.broadcast(Event{Kind: "reload"})
}

// broadcast enqueues without blocking; a client whose buffer is full
// misses the event. The lock also orders enqueues against drop closing
// the channel.
func (h *Hub) broadcast(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		select {
		case c.send <- e:
		default:
		}
	}
}
