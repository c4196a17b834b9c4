package live

import (
	"sync"

	"classroom-signaling/internal/identity"
	"classroom-signaling/internal/protocol"
)

// Conn is one live duplex channel to a client. The transport layer implements
// it; tests substitute fakes. Send is fire-and-forget: delivery to a
// transiently slow client may be dropped and is never surfaced as an error.
type Conn interface {
	ID() string
	Identity() identity.Identity
	Send(msg protocol.ServerMessage)
}

// Registry maps live connection ids to their authenticated connections.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Add registers an authenticated connection.
func (r *Registry) Add(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID()] = c
}

// Remove drops a connection, reporting whether it was present. Duplicate
// removals return false so disconnect handling runs exactly once.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; !ok {
		return false
	}
	delete(r.conns, id)
	return true
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
