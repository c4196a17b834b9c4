package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom-signaling/internal/identity"
	"classroom-signaling/internal/protocol"
)

type fakeConn struct {
	id    string
	ident identity.Identity

	mu     sync.Mutex
	events []protocol.ServerMessage
}

func (f *fakeConn) ID() string                  { return f.id }
func (f *fakeConn) Identity() identity.Identity { return f.ident }

func (f *fakeConn) Send(msg protocol.ServerMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, msg)
}

func (f *fakeConn) received(event string) []protocol.ServerMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []protocol.ServerMessage
	for _, msg := range f.events {
		if msg.Event == event {
			out = append(out, msg)
		}
	}
	return out
}

func newChatService(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	repo.AddRoom(&Room{ID: "general", Name: "General", CreatedAt: time.Now()})
	return NewService(repo), repo
}

func conn(id, userID string) *fakeConn {
	return &fakeConn{id: id, ident: identity.Identity{ID: userID, Role: identity.RoleStudent}}
}

func TestChatJoin(t *testing.T) {
	svc, _ := newChatService(t)
	c := conn("conn-1", "u1")

	svc.Join(c, "general")
	joined := c.received(protocol.ServerChatJoined)
	require.Len(t, joined, 1)
	assert.Equal(t, "general", joined[0].Data)
}

func TestChatJoinUnknownRoom(t *testing.T) {
	svc, _ := newChatService(t)
	c := conn("conn-1", "u1")

	svc.Join(c, "ghost")
	assert.Empty(t, c.received(protocol.ServerChatJoined))
}

func TestChatMessageRequiresMembership(t *testing.T) {
	svc, repo := newChatService(t)
	c := conn("conn-1", "u1")

	svc.Message(c, "general", "hello")

	errs := c.received(protocol.ServerChatError)
	require.Len(t, errs, 1)
	assert.Equal(t, "Not in this room", errs[0].Error)
	assert.Empty(t, repo.Messages("general"))
}

func TestChatMessagePersistsAndRelays(t *testing.T) {
	svc, repo := newChatService(t)
	sender := conn("conn-1", "u1")
	other := conn("conn-2", "u2")
	svc.Join(sender, "general")
	svc.Join(other, "general")

	svc.Message(sender, "general", "hello")

	stored := repo.Messages("general")
	require.Len(t, stored, 1)
	assert.Equal(t, "u1", stored[0].Sender)
	assert.Equal(t, "hello", stored[0].Content)

	relayed := other.received(protocol.ServerChatMessage)
	require.Len(t, relayed, 1)
	payload := relayed[0].Data.(MessagePayload)
	assert.Equal(t, "u1", payload.Sender.ID)
	assert.Equal(t, "hello", payload.Message)

	// The sender gets a sent confirmation, not the broadcast copy.
	assert.Empty(t, sender.received(protocol.ServerChatMessage))
	assert.Len(t, sender.received(protocol.ServerChatMessageSent), 1)
}

func TestChatLeave(t *testing.T) {
	svc, _ := newChatService(t)
	c := conn("conn-1", "u1")
	svc.Join(c, "general")
	svc.Leave(c, "general")

	svc.Message(c, "general", "hello")
	assert.Len(t, c.received(protocol.ServerChatError), 1)
}

func TestChatDisconnectDropsMemberships(t *testing.T) {
	svc, repo := newChatService(t)
	repo.AddRoom(&Room{ID: "random", Name: "Random", CreatedAt: time.Now()})

	c := conn("conn-1", "u1")
	other := conn("conn-2", "u2")
	svc.Join(c, "general")
	svc.Join(c, "random")
	svc.Join(other, "general")

	svc.Disconnect(c)

	svc.Message(other, "general", "anyone here?")
	// The disconnected member no longer receives broadcasts.
	assert.Empty(t, c.received(protocol.ServerChatMessage))
}
