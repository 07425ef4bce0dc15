package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/quadparty/lobbyd/lobby/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Outbound buffer per client. A client that falls this far behind is
	// dropped.
	sendBufferSize = 256
)

// Client is one connected player from the server's point of view.
type Client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

func newClient(h *Hub, conn *websocket.Conn, id string) *Client {
	return &Client{
		id:      id,
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		limiter: rate.NewLimiter(rate.Limit(h.opts.RateLimitRPS), h.opts.RateLimitBurst),
	}
}

// enqueue hands a marshaled message to the write pump without blocking.
// A full buffer means the client is too slow to keep; kill the connection
// and let the read pump's exit path run the normal disconnect handling.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Printf("Client %s send buffer full, dropping connection", c.id)
		c.conn.Close()
	}
}

// readPump pumps messages from the connection to the event handler. One per
// connection; its exit triggers the single disconnect notification.
func (c *Client) readPump() {
	defer func() {
		if c.hub.remove(c) {
			c.hub.handler.OnDisconnect(c.id)
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Client %s read error: %v", c.id, err)
			}
			break
		}

		if !c.limiter.Allow() {
			metrics.ThrottledMessagesTotal.Inc()
			log.Printf("Client %s exceeded rate limit, dropping message", c.id)
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			log.Printf("Client %s sent malformed message: %v", c.id, err)
			continue
		}

		c.hub.handler.OnEvent(c.id, env.Event, env.Payload)
	}
}

// writePump pumps messages from the send channel to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
