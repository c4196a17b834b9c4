package live

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrRoomNotFound  = errors.New("room does not exist or has ended")
	ErrRoomExists    = errors.New("room already exists")
	ErrAlreadyMember = errors.New("already in this room")
	ErrInvalidTarget = errors.New("invalid room or student")
	ErrMissingField  = errors.New("missing required fields")
)

// RoomSummary is the read-only view served by the reporting endpoint.
type RoomSummary struct {
	RoomID       string    `json:"roomId"`
	CourseID     string    `json:"courseId"`
	TeacherID    string    `json:"teacherId"`
	StudentCount int       `json:"studentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store is the single source of truth for active rooms. The table mutex only
// guards the map itself; every room carries its own mutex, so operations on
// unrelated rooms do not contend.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewStore creates an empty room store.
func NewStore() *Store {
	return &Store{rooms: make(map[string]*Room)}
}

// Create registers a new active room hosted by the given teacher connection.
func (s *Store) Create(roomID, courseID, teacherID string, teacher Conn) (*Room, error) {
	if roomID == "" || courseID == "" || teacherID == "" {
		return nil, ErrMissingField
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[roomID]; exists {
		return nil, ErrRoomExists
	}
	room := newRoom(roomID, courseID, teacherID, teacher)
	s.rooms[roomID] = room
	return room, nil
}

// Join adds a student connection to a room's member set.
func (s *Store) Join(roomID, studentID string, student Conn) (*Room, error) {
	room, ok := s.Get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if err := room.addStudent(studentID, student); err != nil {
		return nil, err
	}
	return room, nil
}

// Get looks up an active room.
func (s *Store) Get(roomID string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	return room, ok
}

// End removes the room from the table and returns the members that were
// subscribed at that moment, so the caller can deliver the terminal
// room-ended event. Ending an unknown room is a silent no-op.
func (s *Store) End(roomID string) []Conn {
	s.mu.Lock()
	room, ok := s.rooms[roomID]
	if ok {
		delete(s.rooms, roomID)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return room.end()
}

// Delete drops a room without notifying anyone. Used for empty-room cleanup.
func (s *Store) Delete(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
}

// All returns the current set of rooms. Callers serialize per room.
func (s *Store) All() []*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// Count returns the number of active rooms.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Snapshot returns a consistent view of the active rooms for reporting.
func (s *Store) Snapshot() []RoomSummary {
	rooms := s.All()
	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, RoomSummary{
			RoomID:       room.ID,
			CourseID:     room.CourseID,
			TeacherID:    room.TeacherID,
			StudentCount: room.StudentCount(),
			CreatedAt:    room.CreatedAt,
		})
	}
	return summaries
}
