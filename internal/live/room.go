package live

import (
	"sync"
	"time"
)

// RoomStatus is a room's lifecycle state. Ended rooms are not retained, so
// StatusEnded is only ever observed on a room already removed from the store.
type RoomStatus string

const (
	StatusActive RoomStatus = "active"
	StatusEnded  RoomStatus = "ended"
)

// Room is a live classroom session: one teacher connection hosting a set of
// student connections keyed by student identity id. All mutations on a room
// are serialized by its own mutex; the store takes it on every operation.
type Room struct {
	ID        string
	CourseID  string
	TeacherID string
	CreatedAt time.Time

	mu       sync.Mutex
	teacher  Conn
	students map[string]Conn
	status   RoomStatus
}

func newRoom(id, courseID, teacherID string, teacher Conn) *Room {
	return &Room{
		ID:        id,
		CourseID:  courseID,
		TeacherID: teacherID,
		CreatedAt: time.Now(),
		teacher:   teacher,
		students:  make(map[string]Conn),
		status:    StatusActive,
	}
}

// Teacher returns the connection currently hosting the room.
func (r *Room) Teacher() Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.teacher
}

// IsTeacherConn reports whether c is the room's current teacher connection.
// Teacher-only commands compare connections, not identity ids, so a teacher
// cannot issue them from a second, non-hosting connection.
func (r *Room) IsTeacherConn(c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.teacher != nil && r.teacher.ID() == c.ID()
}

// Student resolves a member connection by student identity id.
func (r *Room) Student(studentID string) (Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.students[studentID]
	return c, ok
}

// HasMemberConn reports whether c is the teacher connection or one of the
// student connections of this room.
func (r *Room) HasMemberConn(c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.teacher != nil && r.teacher.ID() == c.ID() {
		return true
	}
	for _, student := range r.students {
		if student.ID() == c.ID() {
			return true
		}
	}
	return false
}

// Members returns the teacher plus all student connections.
func (r *Room) Members() []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := make([]Conn, 0, len(r.students)+1)
	if r.teacher != nil {
		members = append(members, r.teacher)
	}
	for _, c := range r.students {
		members = append(members, c)
	}
	return members
}

// StudentCount returns the number of student members.
func (r *Room) StudentCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.students)
}

func (r *Room) addStudent(studentID string, c Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusActive {
		return ErrRoomNotFound
	}
	if _, exists := r.students[studentID]; exists {
		return ErrAlreadyMember
	}
	r.students[studentID] = c
	return nil
}

// removeStudent deletes a member entry. Idempotent: absent ids are a no-op.
func (r *Room) removeStudent(studentID string) (Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.students[studentID]
	if ok {
		delete(r.students, studentID)
	}
	return c, ok
}

// endIfEmpty flips a drained room to ended under its own mutex, so a join
// racing the cleanup observes the ended status and is refused instead of
// landing in a room about to disappear. Returns false when students remain.
func (r *Room) endIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.students) != 0 {
		return false
	}
	r.status = StatusEnded
	return true
}

// removeStudentConn deletes the member entry owned by the given connection,
// returning the student id it was registered under.
func (r *Room) removeStudentConn(c Conn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for studentID, student := range r.students {
		if student.ID() == c.ID() {
			delete(r.students, studentID)
			return studentID, true
		}
	}
	return "", false
}

func (r *Room) end() []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := make([]Conn, 0, len(r.students)+1)
	if r.teacher != nil {
		members = append(members, r.teacher)
	}
	for _, c := range r.students {
		members = append(members, c)
	}
	r.status = StatusEnded
	r.teacher = nil
	r.students = make(map[string]Conn)
	return members
}
