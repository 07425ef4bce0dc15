package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/quadparty/lobbyd/lobby/metrics"
)

// Envelope is the wire format for every message in both directions.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EventHandler receives decoded inbound traffic from the hub. The lobby
// dispatcher implements it.
type EventHandler interface {
	// OnEvent is called for every well-formed inbound envelope.
	OnEvent(connID, event string, payload json.RawMessage)

	// OnDisconnect is called once when a connection goes away, after its
	// read pump exits.
	OnDisconnect(connID string)
}

// Options configure the hub's transport behavior.
type Options struct {
	// AllowedOrigin restricts cross-origin upgrades. "*" allows any origin.
	AllowedOrigin string

	// RateLimitRPS and RateLimitBurst bound inbound messages per connection.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Hub tracks every connected client and fans outbound messages out to them.
// It implements the coordinator's Emitter contract.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	handler EventHandler
	opts    Options

	upgrader websocket.Upgrader
}

// NewHub creates a hub delivering inbound events to handler.
func NewHub(handler EventHandler, opts Options) *Hub {
	h := &Hub{
		clients: make(map[string]*Client),
		handler: handler,
		opts:    opts,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin enforces the configured CORS origin on upgrade requests.
// Requests without an Origin header (same-origin, non-browser clients) pass.
func (h *Hub) checkOrigin(r *http.Request) bool {
	if h.opts.AllowedOrigin == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || origin == h.opts.AllowedOrigin
}

// ServeWS upgrades an HTTP request to a WebSocket connection, assigns it a
// connection ID, and starts its pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := newClient(h, conn, uuid.NewString())

	h.mu.Lock()
	h.clients[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()

	metrics.ConnectionsActive.Set(float64(total))
	log.Printf("Client %s connected from %s (total clients: %d)", client.id, conn.RemoteAddr(), total)

	go client.writePump()
	go client.readPump()
}

// Broadcast sends the event to every connected client.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := encode(event, payload)
	if err != nil {
		log.Printf("Failed to marshal broadcast %q: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.enqueue(data)
	}
}

// Send delivers the event to one connection. Unknown connection IDs are
// ignored: the client may already be gone.
func (h *Hub) Send(connID, event string, payload interface{}) {
	data, err := encode(event, payload)
	if err != nil {
		log.Printf("Failed to marshal %q for %s: %v", event, connID, err)
		return
	}

	h.mu.RLock()
	client := h.clients[connID]
	h.mu.RUnlock()

	if client != nil {
		client.enqueue(data)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// remove drops a client from the registry. Returns true on the first call
// for a given client so disconnect handling runs once.
func (h *Hub) remove(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.id] != client {
		return false
	}
	delete(h.clients, client.id)
	close(client.send)
	metrics.ConnectionsActive.Set(float64(len(h.clients)))
	return true
}

// encode wraps a payload in the wire envelope.
func encode(event string, payload interface{}) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return json.Marshal(Envelope{Event: event, Payload: raw})
}
