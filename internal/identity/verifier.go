package identity

import (
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims represents the authorization claims transmitted via a JWT. Upstream
// services are inconsistent about which field carries the subject id and the
// role, so every known alias is decoded and resolved in order.
type Claims struct {
	jwt.StandardClaims
	UserID       string `json:"userId,omitempty"`
	AdminID      string `json:"adminId,omitempty"`
	InstructorID string `json:"instructorId,omitempty"`
	MongoID      string `json:"_id,omitempty"`
	ID           string `json:"id,omitempty"`
	Role         string `json:"role,omitempty"`
	UserRole     string `json:"userRole,omitempty"`
	Type         string `json:"type,omitempty"`
}

func (c *Claims) subjectID() string {
	for _, id := range []string{c.UserID, c.AdminID, c.InstructorID, c.MongoID, c.ID, c.Subject} {
		if id != "" {
			return id
		}
	}
	return ""
}

func (c *Claims) role() Role {
	for _, role := range []string{c.Role, c.UserRole, c.Type} {
		if role != "" {
			return ParseRole(role)
		}
	}
	return RoleUnknown
}

// Authenticator resolves an Identity from an incoming handshake request.
type Authenticator struct {
	secret []byte
	// devBypass permits the explicit teacherId/studentId query parameters.
	// It must be false in production.
	devBypass bool
}

// NewAuthenticator builds an Authenticator. devBypass enables the
// non-production query-parameter trust path.
func NewAuthenticator(secret string, devBypass bool) *Authenticator {
	return &Authenticator{secret: []byte(secret), devBypass: devBypass}
}

// Authenticate derives the connection's Identity from the handshake request.
// A missing or invalid credential fails the connection attempt entirely.
func (a *Authenticator) Authenticate(r *http.Request) (Identity, error) {
	if a.devBypass {
		if teacherID := r.URL.Query().Get("teacherId"); teacherID != "" {
			return Identity{ID: teacherID, Role: RoleTeacher}, nil
		}
		if studentID := r.URL.Query().Get("studentId"); studentID != "" {
			return Identity{ID: studentID, Role: RoleStudent}, nil
		}
	}

	token := extractToken(r)
	if token == "" {
		return Identity{}, ErrAuthRequired
	}
	return a.VerifyToken(token)
}

// VerifyToken checks the token signature and maps its claims to an Identity.
func (a *Authenticator) VerifyToken(token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	id := claims.subjectID()
	if id == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: id, Role: claims.role()}, nil
}

func extractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ")
}
