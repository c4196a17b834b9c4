package protocol

import "encoding/json"

// Client event names. The set is closed: anything else is rejected at decode
// time and never reaches a handler.
const (
	EventCreateRoom   = "create-room"
	EventJoinRoom     = "join-room"
	EventLeaveRoom    = "leave-room"
	EventOffer        = "webrtc-offer"
	EventAnswer       = "webrtc-answer"
	EventIceCandidate = "ice-candidate"
	EventSendMessage  = "send-message"
	EventSendEmoji    = "send-emoji"
	EventMuteStudent  = "teacher-mute-student"
	EventKickStudent  = "teacher-kick-student"
	EventRaiseHand    = "raise-hand"
	EventLowerHand    = "lower-hand"
	EventSendTask     = "send-task"
	EventSubmitTask   = "submit-task"
	EventChatJoin     = "chat:join"
	EventChatLeave    = "chat:leave"
	EventChatMessage  = "chat:message"
)

// Server event names.
const (
	ServerAck             = "ack"
	ServerError           = "error"
	ServerRoomCreated     = "room-created"
	ServerUserJoined      = "user-joined"
	ServerUserLeft        = "user-left"
	ServerRoomEnded       = "room-ended"
	ServerOffer           = "webrtc-offer"
	ServerAnswer          = "webrtc-answer"
	ServerIceCandidate    = "ice-candidate"
	ServerNewMessage      = "new-message"
	ServerReceiveEmoji    = "receive-emoji"
	ServerForceMute       = "force-mute"
	ServerForceUnmute     = "force-unmute"
	ServerForceKick       = "force-kick"
	ServerHandRaised      = "student-raised-hand"
	ServerHandLowered     = "student-lowered-hand"
	ServerReceiveTask     = "receive-task"
	ServerTaskSubmitted   = "task-submitted"
	ServerChatJoined      = "chat:joined"
	ServerChatMessage     = "chat:message"
	ServerChatMessageSent = "chat:message:sent"
	ServerChatError       = "chat:error"
)

// Envelope is the raw client frame: a named event, an event-specific payload
// and an optional ack id the client expects a reply for.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	Ack   int64           `json:"ack,omitempty"`
}

// ServerMessage is an outgoing frame. Ack frames carry the client's ack id
// back together with either a result or an error.
type ServerMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
	Ack   int64       `json:"ack,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Client payloads. SDP and candidate blobs are relayed opaquely; the server
// never interprets their contents.
type (
	CreateRoom struct {
		RoomID   string `json:"roomId"`
		CourseID string `json:"courseId"`
	}

	JoinRoom struct {
		RoomID string `json:"roomId"`
		// StudentID overrides the identity id; dev tooling only.
		StudentID string `json:"studentId,omitempty"`
	}

	LeaveRoom struct {
		RoomID string `json:"roomId"`
	}

	Offer struct {
		RoomID    string          `json:"roomId"`
		StudentID string          `json:"studentId"`
		SDP       json.RawMessage `json:"sdp"`
	}

	Answer struct {
		RoomID string          `json:"roomId"`
		SDP    json.RawMessage `json:"sdp"`
	}

	IceCandidate struct {
		RoomID    string          `json:"roomId"`
		Candidate json.RawMessage `json:"candidate"`
		// StudentID present: teacher relaying to a student.
		// Absent: student relaying to the teacher.
		StudentID string `json:"studentId,omitempty"`
	}

	RoomText struct {
		RoomID  string `json:"roomId"`
		Message string `json:"message"`
	}

	Emoji struct {
		RoomID string `json:"roomId"`
		Emoji  string `json:"emoji"`
	}

	MuteStudent struct {
		RoomID   string `json:"roomId"`
		TargetID string `json:"targetId"`
		Mute     bool   `json:"mute"`
	}

	KickStudent struct {
		RoomID   string `json:"roomId"`
		TargetID string `json:"targetId"`
	}

	Hand struct {
		RoomID string `json:"roomId"`
	}

	Task struct {
		RoomID string          `json:"roomId"`
		Task   json.RawMessage `json:"task"`
	}

	TaskSubmission struct {
		RoomID     string          `json:"roomId"`
		Submission json.RawMessage `json:"submission"`
	}

	ChatRoomRef struct {
		RoomID string `json:"roomId"`
	}

	ChatText struct {
		RoomID  string `json:"roomId"`
		Message string `json:"message"`
	}
)

// Relayed signaling payloads delivered to the target peer, tagged with the
// sender's connection id.
type (
	RelayedOffer struct {
		From   string          `json:"from"`
		SDP    json.RawMessage `json:"sdp"`
		RoomID string          `json:"roomId"`
	}

	RelayedAnswer struct {
		From      string          `json:"from"`
		SDP       json.RawMessage `json:"sdp"`
		RoomID    string          `json:"roomId"`
		StudentID string          `json:"studentId"`
	}

	RelayedCandidate struct {
		From      string          `json:"from"`
		Candidate json.RawMessage `json:"candidate"`
		RoomID    string          `json:"roomId"`
		StudentID string          `json:"studentId"`
	}
)
