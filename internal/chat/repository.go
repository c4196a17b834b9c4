package chat

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrRoomNotFound indicates the chat room does not exist in storage.
var ErrRoomNotFound = errors.New("chat room not found")

// Repository persists chat rooms and their message logs.
type Repository interface {
	FindRoom(roomID string) (*Room, error)
	FindRooms() ([]*Room, error)
	AppendMessage(roomID string, msg *Message) error
}

// MemoryRepository is an in-memory Repository used in tests and when no
// MongoDB is configured.
type MemoryRepository struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	messages map[string][]*Message
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rooms:    make(map[string]*Room),
		messages: make(map[string][]*Message),
	}
}

// AddRoom seeds a room.
func (r *MemoryRepository) AddRoom(room *Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ID] = room
}

// FindRoom looks up a room by id.
func (r *MemoryRepository) FindRoom(roomID string) (*Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// FindRooms lists all rooms.
func (r *MemoryRepository) FindRooms() ([]*Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// AppendMessage adds a message to a room's log.
func (r *MemoryRepository) AppendMessage(roomID string, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[roomID]; !ok {
		return ErrRoomNotFound
	}
	r.messages[roomID] = append(r.messages[roomID], msg)
	return nil
}

// Messages returns the stored log for a room.
func (r *MemoryRepository) Messages(roomID string) []*Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.messages[roomID]
}
