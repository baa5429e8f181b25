package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ShopMate/internal/chatbot"
)

// ErrNoClients is returned when an event had nobody to go to
var ErrNoClients = errors.New("no widget connected")

const (
	writeWait   = 10 * time.Second
	sendBuffer  = 32
	maxReadSize = 512
)

// Frame is one JSON message pushed to the widget
type Frame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan Frame
	// ID of the newest message in the last snapshot sent; message frames
	// at or before it are already on the client
	after string
}

// Hub pushes conversation events to connected widgets. It is the browser's
// side of the host: navigation and deal notifications travel through it.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader
	snapshot func() chatbot.View

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates a hub. snapshot, when set, is sent to each new client first.
// Message IDs sort in append order, so messages already in a client's
// snapshot are not sent to it again.
func NewHub(logger *slog.Logger, snapshot func() chatbot.View) *Hub {
	return &Hub{
		logger:   logger,
		snapshot: snapshot,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeWS upgrades the request and streams frames until the client leaves
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan Frame, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.snapshot != nil {
		view := h.snapshot()
		c.after = lastMessageID(view)
		c.send <- Frame{Type: "snapshot", Payload: view}
	}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("widget connected", "remote", r.RemoteAddr, "clients", count)

	go h.writeLoop(c)
	h.readLoop(c)
}

// readLoop discards client input and detects disconnects
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(maxReadSize)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()

	for frame := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(frame); err != nil {
			h.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.logger.Info("widget disconnected", "clients", len(h.clients))
}

// Broadcast queues f for every client, dropping clients that fall behind.
// It returns the number of clients reached.
func (h *Hub) Broadcast(f Frame) int {
	return h.broadcast(f, nil)
}

// broadcast queues f for every client accepted by keep, or all when keep is nil
func (h *Hub) broadcast(f Frame, keep func(*client) bool) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for c := range h.clients {
		if keep != nil && !keep(c) {
			continue
		}
		select {
		case c.send <- f:
			sent++
		default:
			h.logger.Warn("dropping slow widget")
			delete(h.clients, c)
			close(c.send)
		}
	}
	return sent
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// NavigateTo implements host.Navigator
func (h *Hub) NavigateTo(_ context.Context, route string) error {
	if h.Broadcast(Frame{Type: "navigate", Payload: map[string]string{"route": route}}) == 0 {
		return ErrNoClients
	}
	return nil
}

// ClearNegotiation implements host.NegotiationOwner
func (h *Hub) ClearNegotiation() {
	h.Broadcast(Frame{Type: "negotiation_cleared"})
}

// Listen forwards chat events; register it with ChatBot.Subscribe
func (h *Hub) Listen(e chatbot.Event) {
	switch e.Type {
	case chatbot.EventMessage:
		if e.Message == nil {
			return
		}
		id := e.Message.ID
		h.broadcast(Frame{Type: "message", Payload: e.Message}, func(c *client) bool {
			return id > c.after
		})
	case chatbot.EventVisibility:
		h.Broadcast(Frame{Type: "visibility", Payload: map[string]bool{"open": e.Open}})
	case chatbot.EventNegotiation:
		if e.Negotiation != nil {
			h.Broadcast(Frame{Type: "negotiation_started", Payload: e.Negotiation})
		} else {
			h.Broadcast(Frame{Type: "negotiation_ended"})
		}
	case chatbot.EventReset:
		if h.snapshot == nil {
			return
		}
		view := h.snapshot()
		after := lastMessageID(view)
		h.broadcast(Frame{Type: "snapshot", Payload: view}, func(c *client) bool {
			c.after = after
			return true
		})
	}
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func lastMessageID(v chatbot.View) string {
	if len(v.Messages) == 0 {
		return ""
	}
	return v.Messages[len(v.Messages)-1].ID
}
