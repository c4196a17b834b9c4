package live

import (
	"log"

	"classroom-signaling/internal/chat"
	"classroom-signaling/internal/protocol"
)

// Hub owns the room store and dispatches decoded client events to their
// handlers. One hub serves the whole process; per-room serialization lives in
// the store, so handlers for unrelated rooms run concurrently.
type Hub struct {
	store    *Store
	registry *Registry
	chat     *chat.Service
}

// NewHub creates a hub around an empty room store.
func NewHub(chatSvc *chat.Service) *Hub {
	return &Hub{
		store:    NewStore(),
		registry: NewRegistry(),
		chat:     chatSvc,
	}
}

// Store exposes the room store for the reporting endpoint.
func (h *Hub) Store() *Store { return h.store }

// Chat exposes the chat service for the reporting endpoint.
func (h *Hub) Chat() *chat.Service { return h.chat }

// Register binds an authenticated connection to the hub.
func (h *Hub) Register(c Conn) {
	h.registry.Add(c)
	log.Printf("⚡ %s connected [%s]", c.Identity().Role, c.ID())
}

// Handle dispatches one decoded client event. A panicking or failing handler
// is contained here: the error goes back to the sender as an ack when one was
// requested, and never takes down the process or other rooms.
func (h *Hub) Handle(c Conn, msg *protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Handler panic on %s from %s: %v", msg.Event, c.ID(), r)
		}
	}()

	var err error
	switch p := msg.Payload.(type) {
	case *protocol.CreateRoom:
		err = h.createRoom(c, msg.Ack, p)
	case *protocol.JoinRoom:
		err = h.joinRoom(c, msg.Ack, p)
	case *protocol.LeaveRoom:
		h.leaveRoom(c, p.RoomID)
	case *protocol.Offer:
		err = h.routeOffer(c, p)
	case *protocol.Answer:
		err = h.routeAnswer(c, p)
	case *protocol.IceCandidate:
		err = h.routeIceCandidate(c, p)
	case *protocol.RoomText:
		h.sendMessage(c, p)
	case *protocol.Emoji:
		h.sendEmoji(c, p)
	case *protocol.MuteStudent:
		h.muteStudent(c, p)
	case *protocol.KickStudent:
		h.kickStudent(c, p)
	case *protocol.Hand:
		h.hand(c, msg.Event, p.RoomID)
	case *protocol.Task:
		h.sendTask(c, p)
	case *protocol.TaskSubmission:
		h.submitTask(c, p)
	case *protocol.ChatRoomRef:
		h.chatRoom(c, msg.Event, p.RoomID)
	case *protocol.ChatText:
		h.chat.Message(c, p.RoomID, p.Message)
	default:
		log.Printf("Unhandled event %s from %s", msg.Event, c.ID())
	}

	if err != nil {
		log.Printf("⚠️ %s from %s [%s]: %v", msg.Event, c.Identity().ID, c.ID(), err)
		if msg.Ack != 0 {
			c.Send(protocol.ServerMessage{Event: protocol.ServerAck, Ack: msg.Ack, Error: err.Error()})
		}
	}
}

func (h *Hub) createRoom(c Conn, ack int64, p *protocol.CreateRoom) error {
	teacherID := c.Identity().ID
	room, err := h.store.Create(p.RoomID, p.CourseID, teacherID, c)
	if err != nil {
		return err
	}
	log.Printf("🏫 Room created: %s by teacher %s", room.ID, teacherID)

	h.ackOK(c, ack, room.ID)
	c.Send(protocol.ServerMessage{
		Event: protocol.ServerRoomCreated,
		Data:  protocol.RoomCreated{RoomID: room.ID, CourseID: room.CourseID, TeacherID: teacherID},
	})
	return nil
}

func (h *Hub) joinRoom(c Conn, ack int64, p *protocol.JoinRoom) error {
	studentID := c.Identity().ID
	if studentID == "" {
		studentID = p.StudentID
	}
	if studentID == "" {
		return ErrMissingField
	}

	room, err := h.store.Join(p.RoomID, studentID, c)
	if err != nil {
		return err
	}
	log.Printf("🎓 Student %s joined room %s", studentID, room.ID)

	h.broadcast(room, protocol.ServerUserJoined, protocol.UserJoined{RoomID: room.ID, StudentID: studentID})
	h.ackOK(c, ack, room.ID)
	return nil
}

// leaveRoom applies the teacher/student branch: the hosting teacher leaving
// ends the room for everyone, a student leaving only removes their entry.
func (h *Hub) leaveRoom(c Conn, roomID string) {
	room, ok := h.store.Get(roomID)
	if !ok {
		return
	}

	if room.IsTeacherConn(c) {
		h.endRoom(roomID)
		log.Printf("🚪 Room %s ended by teacher", roomID)
		return
	}

	studentID := c.Identity().ID
	if _, ok := room.removeStudent(studentID); ok {
		h.broadcast(room, protocol.ServerUserLeft, protocol.UserLeft{RoomID: roomID, StudentID: studentID})
		log.Printf("🎓 Student %s left room %s", studentID, roomID)
	}
}

func (h *Hub) sendMessage(c Conn, p *protocol.RoomText) {
	room, ok := h.store.Get(p.RoomID)
	if !ok {
		return
	}
	h.broadcast(room, protocol.ServerNewMessage, protocol.NewMessage{
		RoomID:  p.RoomID,
		From:    c.Identity().ID,
		Message: p.Message,
	})
}

func (h *Hub) sendEmoji(c Conn, p *protocol.Emoji) {
	room, ok := h.store.Get(p.RoomID)
	if !ok {
		return
	}
	sender := c.Identity().ID
	if sender == "" {
		sender = "anonymous"
	}
	h.broadcast(room, protocol.ServerReceiveEmoji, protocol.ReceiveEmoji{
		RoomID: p.RoomID,
		From:   sender,
		Emoji:  p.Emoji,
	})
}

// muteStudent delivers a forced-mute directive to one named student. Anything
// but the room's current teacher connection is silently ignored.
func (h *Hub) muteStudent(c Conn, p *protocol.MuteStudent) {
	room, ok := h.store.Get(p.RoomID)
	if !ok || !room.IsTeacherConn(c) {
		return
	}
	student, ok := room.Student(p.TargetID)
	if !ok {
		return
	}

	event := protocol.ServerForceUnmute
	if p.Mute {
		event = protocol.ServerForceMute
	}
	student.Send(protocol.ServerMessage{Event: event})
	log.Printf("Teacher %s set mute=%t on student %s in %s", c.Identity().ID, p.Mute, p.TargetID, p.RoomID)
}

func (h *Hub) kickStudent(c Conn, p *protocol.KickStudent) {
	room, ok := h.store.Get(p.RoomID)
	if !ok || !room.IsTeacherConn(c) {
		return
	}
	student, ok := room.removeStudent(p.TargetID)
	if !ok {
		return
	}

	student.Send(protocol.ServerMessage{Event: protocol.ServerForceKick})
	h.broadcast(room, protocol.ServerUserLeft, protocol.UserLeft{RoomID: p.RoomID, StudentID: p.TargetID})
	log.Printf("Teacher %s kicked student %s from %s", c.Identity().ID, p.TargetID, p.RoomID)
}

// hand delivers raise/lower-hand to the teacher connection only.
func (h *Hub) hand(c Conn, event, roomID string) {
	room, ok := h.store.Get(roomID)
	if !ok {
		return
	}
	studentID := c.Identity().ID
	if studentID == "" {
		return
	}

	serverEvent := protocol.ServerHandRaised
	if event == protocol.EventLowerHand {
		serverEvent = protocol.ServerHandLowered
	}
	if teacher := room.Teacher(); teacher != nil {
		teacher.Send(protocol.ServerMessage{
			Event: serverEvent,
			Data:  protocol.HandEvent{RoomID: roomID, StudentID: studentID},
		})
	}
}

func (h *Hub) sendTask(c Conn, p *protocol.Task) {
	room, ok := h.store.Get(p.RoomID)
	if !ok || !room.IsTeacherConn(c) {
		return
	}
	h.broadcast(room, protocol.ServerReceiveTask, protocol.ReceiveTask{RoomID: p.RoomID, Task: p.Task})
}

func (h *Hub) submitTask(c Conn, p *protocol.TaskSubmission) {
	room, ok := h.store.Get(p.RoomID)
	if !ok {
		return
	}
	studentID := c.Identity().ID
	if studentID == "" {
		return
	}
	if teacher := room.Teacher(); teacher != nil {
		teacher.Send(protocol.ServerMessage{
			Event: protocol.ServerTaskSubmitted,
			Data:  protocol.TaskSubmitted{RoomID: p.RoomID, StudentID: studentID, Submission: p.Submission},
		})
	}
}

func (h *Hub) chatRoom(c Conn, event, roomID string) {
	switch event {
	case protocol.EventChatJoin:
		h.chat.Join(c, roomID)
	case protocol.EventChatLeave:
		h.chat.Leave(c, roomID)
	}
}

// endRoom broadcasts the terminal room-ended event and deletes the room
// entry. Ending an already removed room is a silent no-op.
func (h *Hub) endRoom(roomID string) {
	members := h.store.End(roomID)
	for _, member := range members {
		member.Send(protocol.ServerMessage{
			Event: protocol.ServerRoomEnded,
			Data:  protocol.RoomEnded{RoomID: roomID},
		})
	}
}

// broadcast fans out an event to every current member, sender included.
func (h *Hub) broadcast(room *Room, event string, data interface{}) {
	for _, member := range room.Members() {
		member.Send(protocol.ServerMessage{Event: event, Data: data})
	}
}

func (h *Hub) ackOK(c Conn, ack int64, roomID string) {
	if ack == 0 {
		return
	}
	c.Send(protocol.ServerMessage{
		Event: protocol.ServerAck,
		Ack:   ack,
		Data:  protocol.AckResult{Status: "success", RoomID: roomID},
	})
}

// Disconnect reconciles the store after a connection loss. Safe to call more
// than once per connection; only the first call does any work.
func (h *Hub) Disconnect(c Conn) {
	if !h.registry.Remove(c.ID()) {
		return
	}
	log.Printf("⚠️ %s disconnected [%s]", c.Identity().Role, c.ID())

	h.chat.Disconnect(c)

	for _, room := range h.store.All() {
		// Teacher disconnect is always fatal to the room.
		if room.IsTeacherConn(c) {
			h.endRoom(room.ID)
			log.Printf("🚪 Room %s ended (teacher disconnected)", room.ID)
			continue
		}

		if studentID, ok := room.removeStudentConn(c); ok {
			h.broadcast(room, protocol.ServerUserLeft, protocol.UserLeft{RoomID: room.ID, StudentID: studentID})
			log.Printf("🎓 Student %s disconnected from %s", studentID, room.ID)

			// A room drained of students by a student-side disconnect
			// is garbage collected; idle teacher-only rooms that never
			// had a join are kept. The emptiness check and the status
			// flip are one atomic step, so a concurrent join either
			// lands before it and keeps the room, or is refused.
			if room.endIfEmpty() {
				h.store.Delete(room.ID)
				log.Printf("🧹 Cleaned up empty room %s", room.ID)
			}
		}
	}
}
