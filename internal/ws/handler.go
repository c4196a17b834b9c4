package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"classroom-signaling/internal/config"
	"classroom-signaling/internal/identity"
	"classroom-signaling/internal/live"
	"classroom-signaling/internal/protocol"
)

// Handler upgrades handshake requests and runs the per-connection pumps.
type Handler struct {
	hub      *live.Hub
	auth     *identity.Authenticator
	upgrader websocket.Upgrader

	sendBuffer   int
	readTimeout  time.Duration
	writeTimeout time.Duration
	pingInterval time.Duration
}

// NewHandler wires the websocket endpoint. In production only the configured
// origin may connect.
func NewHandler(hub *live.Hub, auth *identity.Authenticator, cfg *config.Config) *Handler {
	checkOrigin := func(r *http.Request) bool { return true }
	if cfg.IsProduction() && cfg.CORSOrigin != "*" {
		origin := cfg.CORSOrigin
		checkOrigin = func(r *http.Request) bool {
			return r.Header.Get("Origin") == origin
		}
	}

	return &Handler{
		hub:          hub,
		auth:         auth,
		upgrader:     websocket.Upgrader{CheckOrigin: checkOrigin},
		sendBuffer:   cfg.SendBuffer,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		pingInterval: cfg.PingInterval,
	}
}

// HandleWebSocket authenticates the handshake, upgrades the connection and
// services it until the client goes away. Authentication failures refuse the
// connection before any event handler runs.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ident, err := h.auth.Authenticate(r)
	if err != nil {
		log.Printf("🔒 Rejected connection from %s: %v", r.RemoteAddr, err)
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	conn := newConn(uuid.NewString(), ident, sock, h.sendBuffer, h.writeTimeout, h.pingInterval)
	h.hub.Register(conn)

	go conn.writePump()
	h.readPump(conn)
}

// readPump decodes inbound frames and hands them to the hub. It owns the
// disconnect signal: when the read loop exits for any reason the reconciler
// runs exactly once.
func (h *Handler) readPump(conn *Conn) {
	defer func() {
		conn.Close()
		h.hub.Disconnect(conn)
	}()

	conn.sock.SetReadDeadline(time.Now().Add(h.readTimeout))
	conn.sock.SetPongHandler(func(string) error {
		conn.sock.SetReadDeadline(time.Now().Add(h.readTimeout))
		return nil
	})

	for {
		_, raw, err := conn.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Read error on %s: %v", conn.ID(), err)
			}
			return
		}
		conn.sock.SetReadDeadline(time.Now().Add(h.readTimeout))

		msg, err := protocol.Decode(raw)
		if err != nil {
			// Malformed frames are rejected, not dispatched; the
			// connection itself stays up.
			conn.Send(protocol.ServerMessage{Event: protocol.ServerError, Error: err.Error()})
			continue
		}
		h.hub.Handle(conn, msg)
	}
}
