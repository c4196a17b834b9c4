package live

import (
	"log"

	"classroom-signaling/internal/protocol"
)

// Signaling relay. Payloads are opaque blobs passed through untouched; the
// server addresses peers by room + student identity id, never by raw
// connection id, since connection ids are not stable across reconnects.

// routeOffer delivers a teacher's offer to one specific student.
func (h *Hub) routeOffer(c Conn, p *protocol.Offer) error {
	room, ok := h.store.Get(p.RoomID)
	if !ok {
		return ErrInvalidTarget
	}
	student, ok := room.Student(p.StudentID)
	if !ok {
		return ErrInvalidTarget
	}

	student.Send(protocol.ServerMessage{
		Event: protocol.ServerOffer,
		Data:  protocol.RelayedOffer{From: c.ID(), SDP: p.SDP, RoomID: p.RoomID},
	})
	return nil
}

// routeAnswer delivers a student's answer to the room's teacher connection,
// tagged with the student's identity id so the teacher can associate it.
func (h *Hub) routeAnswer(c Conn, p *protocol.Answer) error {
	room, ok := h.store.Get(p.RoomID)
	if !ok {
		return ErrRoomNotFound
	}
	teacher := room.Teacher()
	if teacher == nil {
		return ErrRoomNotFound
	}

	teacher.Send(protocol.ServerMessage{
		Event: protocol.ServerAnswer,
		Data: protocol.RelayedAnswer{
			From:      c.ID(),
			SDP:       p.SDP,
			RoomID:    p.RoomID,
			StudentID: c.Identity().ID,
		},
	})
	return nil
}

// routeIceCandidate infers direction from the presence of a target student
// id: present means teacher to student, absent means student to teacher. The
// sender must be a current member of the room either way. An unresolvable
// target is dropped silently: the peer may have disconnected between send and
// delivery, which is a benign race, not an error.
func (h *Hub) routeIceCandidate(c Conn, p *protocol.IceCandidate) error {
	room, ok := h.store.Get(p.RoomID)
	if !ok {
		return ErrRoomNotFound
	}
	if !room.HasMemberConn(c) {
		log.Printf("Dropping ice-candidate from non-member %s for room %s", c.ID(), p.RoomID)
		return nil
	}

	var target Conn
	studentID := p.StudentID
	if studentID != "" {
		target, _ = room.Student(studentID)
	} else {
		target = room.Teacher()
		studentID = c.Identity().ID
	}
	if target == nil {
		return nil
	}

	target.Send(protocol.ServerMessage{
		Event: protocol.ServerIceCandidate,
		Data: protocol.RelayedCandidate{
			From:      c.ID(),
			Candidate: p.Candidate,
			RoomID:    p.RoomID,
			StudentID: studentID,
		},
	})
	return nil
}
