package identity

// Role is the authenticated role carried by a connection.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
	RoleUnknown Role = "unknown"
)

// ParseRole maps a raw claim value onto a known role.
func ParseRole(raw string) Role {
	switch raw {
	case "teacher", "instructor":
		return RoleTeacher
	case "student", "user":
		return RoleStudent
	case "admin":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// Identity is the (id, role) pair bound to a connection at handshake time.
// It is derived once and never re-read per message.
type Identity struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsTeacher reports whether the identity may host rooms.
func (id Identity) IsTeacher() bool {
	return id.Role == RoleTeacher
}
