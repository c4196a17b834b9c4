package protocol

import "encoding/json"

// Server event payloads for room lifecycle and control events.
type (
	RoomCreated struct {
		RoomID    string `json:"roomId"`
		CourseID  string `json:"courseId"`
		TeacherID string `json:"teacherId"`
	}

	UserJoined struct {
		RoomID    string `json:"roomId"`
		StudentID string `json:"studentId"`
	}

	UserLeft struct {
		RoomID    string `json:"roomId"`
		StudentID string `json:"studentId"`
	}

	RoomEnded struct {
		RoomID string `json:"roomId"`
	}

	NewMessage struct {
		RoomID  string `json:"roomId"`
		From    string `json:"from"`
		Message string `json:"message"`
	}

	ReceiveEmoji struct {
		RoomID string `json:"roomId"`
		From   string `json:"from"`
		Emoji  string `json:"emoji"`
	}

	HandEvent struct {
		RoomID    string `json:"roomId"`
		StudentID string `json:"studentId"`
	}

	ReceiveTask struct {
		RoomID string          `json:"roomId"`
		Task   json.RawMessage `json:"task"`
	}

	TaskSubmitted struct {
		RoomID     string          `json:"roomId"`
		StudentID  string          `json:"studentId"`
		Submission json.RawMessage `json:"submission"`
	}

	// AckResult is the success shape of a command acknowledgment.
	AckResult struct {
		Status string `json:"status"`
		RoomID string `json:"roomId,omitempty"`
	}
)
