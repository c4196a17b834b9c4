package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"classroom-signaling/internal/identity"
	"classroom-signaling/internal/protocol"
)

// Conn binds one gorilla websocket to its authenticated identity and a
// buffered outbound queue. It implements the hub's connection interface.
type Conn struct {
	id    string
	ident identity.Identity
	sock  *websocket.Conn

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	writeTimeout time.Duration
	pingInterval time.Duration
}

func newConn(id string, ident identity.Identity, sock *websocket.Conn, sendBuffer int, writeTimeout, pingInterval time.Duration) *Conn {
	return &Conn{
		id:           id,
		ident:        ident,
		sock:         sock,
		send:         make(chan []byte, sendBuffer),
		done:         make(chan struct{}),
		writeTimeout: writeTimeout,
		pingInterval: pingInterval,
	}
}

// ID returns the transport-level connection id.
func (c *Conn) ID() string { return c.id }

// Identity returns the identity bound at handshake time.
func (c *Conn) Identity() identity.Identity { return c.ident }

// Send queues an outbound frame. Delivery is fire-and-forget: when the buffer
// is full the frame is dropped for this client only.
func (c *Conn) Send(msg protocol.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ Failed to encode %s frame for %s: %v", msg.Event, c.id, err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("⚠️ Dropping %s frame for slow connection %s", msg.Event, c.id)
	}
}

// Close tears the socket down. Safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.sock.Close()
	})
	return nil
}

// writePump drains the send queue onto the socket and keeps the connection
// alive with periodic pings.
func (c *Conn) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.sock.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.sock.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.sock.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
