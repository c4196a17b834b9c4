package chat

import (
	"log"
	"sync"
	"time"

	"classroom-signaling/internal/protocol"
)

// Service manages live chat room membership and relays messages through the
// repository. Chat membership is independent of classroom membership: a
// connection may sit in a chat room and a classroom at the same time.
type Service struct {
	repo Repository

	mu     sync.Mutex
	groups map[string]map[string]Conn // roomID -> connID -> conn
	joined map[string]map[string]bool // connID -> roomIDs
}

// NewService creates a chat service over the given repository.
func NewService(repo Repository) *Service {
	return &Service{
		repo:   repo,
		groups: make(map[string]map[string]Conn),
		joined: make(map[string]map[string]bool),
	}
}

// Rooms lists the persisted chat rooms for the reporting endpoint.
func (s *Service) Rooms() ([]*Room, error) {
	return s.repo.FindRooms()
}

// Join subscribes the connection to a chat room's broadcast group. Unknown
// rooms are ignored silently, matching command-less event semantics.
func (s *Service) Join(c Conn, roomID string) {
	if _, err := s.repo.FindRoom(roomID); err != nil {
		log.Printf("💬 Chat join rejected for %s: %v", c.ID(), err)
		return
	}

	s.mu.Lock()
	if s.groups[roomID] == nil {
		s.groups[roomID] = make(map[string]Conn)
	}
	s.groups[roomID][c.ID()] = c
	if s.joined[c.ID()] == nil {
		s.joined[c.ID()] = make(map[string]bool)
	}
	s.joined[c.ID()][roomID] = true
	s.mu.Unlock()

	c.Send(protocol.ServerMessage{Event: protocol.ServerChatJoined, Data: roomID})
	log.Printf("💬 User %s joined chat room %s", c.Identity().ID, roomID)
}

// Leave unsubscribes the connection from a chat room.
func (s *Service) Leave(c Conn, roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(c.ID(), roomID)
}

// Message persists a chat message and relays it to the other members of the
// room, echoing a sent confirmation back to the sender.
func (s *Service) Message(c Conn, roomID, text string) {
	s.mu.Lock()
	member := s.joined[c.ID()][roomID]
	s.mu.Unlock()
	if !member {
		c.Send(protocol.ServerMessage{Event: protocol.ServerChatError, Error: "Not in this room"})
		return
	}

	now := time.Now()
	msg := &Message{Sender: c.Identity().ID, Content: text, SentAt: now}
	if err := s.repo.AppendMessage(roomID, msg); err != nil {
		log.Printf("💬 Chat message error in %s: %v", roomID, err)
		c.Send(protocol.ServerMessage{Event: protocol.ServerChatError, Error: "Failed to send message"})
		return
	}

	payload := MessagePayload{
		RoomID:    roomID,
		Sender:    c.Identity(),
		Message:   text,
		Timestamp: now,
	}

	s.mu.Lock()
	members := make([]Conn, 0, len(s.groups[roomID]))
	for _, member := range s.groups[roomID] {
		members = append(members, member)
	}
	s.mu.Unlock()

	for _, member := range members {
		if member.ID() == c.ID() {
			continue
		}
		member.Send(protocol.ServerMessage{Event: protocol.ServerChatMessage, Data: payload})
	}
	c.Send(protocol.ServerMessage{Event: protocol.ServerChatMessageSent, Data: payload})
}

// Disconnect drops the connection from every chat room it joined.
func (s *Service) Disconnect(c Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for roomID := range s.joined[c.ID()] {
		s.dropLocked(c.ID(), roomID)
	}
}

func (s *Service) dropLocked(connID, roomID string) {
	if group := s.groups[roomID]; group != nil {
		delete(group, connID)
		if len(group) == 0 {
			delete(s.groups, roomID)
		}
	}
	if rooms := s.joined[connID]; rooms != nil {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(s.joined, connID)
		}
	}
}
