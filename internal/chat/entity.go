package chat

import (
	"time"

	"classroom-signaling/internal/identity"
	"classroom-signaling/internal/protocol"
)

// Room is a persistent chat room. Membership of the live broadcast group is
// tracked by the Service; the repository only holds the room document and its
// message log.
type Room struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Participants []string  `bson:"participants" json:"participants"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}

// Message is one chat room message.
type Message struct {
	Sender  string    `bson:"sender" json:"sender"`
	Content string    `bson:"content" json:"content"`
	SentAt  time.Time `bson:"sent_at" json:"timestamp"`
}

// MessagePayload is the shape relayed to chat room members.
type MessagePayload struct {
	RoomID    string            `json:"roomId"`
	Sender    identity.Identity `json:"sender"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
}

// Conn is the subset of the live connection surface the chat service needs.
// Declared here to avoid an import cycle with the hub package.
type Conn interface {
	ID() string
	Identity() identity.Identity
	Send(msg protocol.ServerMessage)
}
