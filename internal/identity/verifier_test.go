package identity

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyToken(t *testing.T) {
	auth := NewAuthenticator(testSecret, false)
	token := signToken(t, testSecret, jwt.MapClaims{
		"userId": "u1",
		"role":   "teacher",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	ident, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", ident.ID)
	assert.Equal(t, RoleTeacher, ident.Role)
}

func TestVerifyTokenClaimAliases(t *testing.T) {
	auth := NewAuthenticator(testSecret, false)

	tests := []struct {
		name     string
		claims   jwt.MapClaims
		wantID   string
		wantRole Role
	}{
		{"admin id", jwt.MapClaims{"adminId": "a1", "role": "admin"}, "a1", RoleAdmin},
		{"instructor id", jwt.MapClaims{"instructorId": "i1", "type": "instructor"}, "i1", RoleTeacher},
		{"mongo id", jwt.MapClaims{"_id": "m1", "userRole": "student"}, "m1", RoleStudent},
		{"plain id no role", jwt.MapClaims{"id": "p1"}, "p1", RoleUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ident, err := auth.VerifyToken(signToken(t, testSecret, tc.claims))
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, ident.ID)
			assert.Equal(t, tc.wantRole, ident.Role)
		})
	}
}

func TestVerifyTokenWrongKey(t *testing.T) {
	auth := NewAuthenticator(testSecret, false)
	token := signToken(t, "other-secret", jwt.MapClaims{"userId": "u1"})

	_, err := auth.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenNoSubject(t *testing.T) {
	auth := NewAuthenticator(testSecret, false)
	token := signToken(t, testSecret, jwt.MapClaims{"role": "teacher"})

	_, err := auth.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateMissingCredential(t *testing.T) {
	auth := NewAuthenticator(testSecret, false)
	req := httptest.NewRequest("GET", "/ws", nil)

	_, err := auth.Authenticate(req)
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestAuthenticateTokenSources(t *testing.T) {
	auth := NewAuthenticator(testSecret, false)
	token := signToken(t, testSecret, jwt.MapClaims{"userId": "u1", "role": "student"})

	queryReq := httptest.NewRequest("GET", "/ws?token="+token, nil)
	ident, err := auth.Authenticate(queryReq)
	require.NoError(t, err)
	assert.Equal(t, "u1", ident.ID)

	headerReq := httptest.NewRequest("GET", "/ws", nil)
	headerReq.Header.Set("Authorization", "Bearer "+token)
	ident, err = auth.Authenticate(headerReq)
	require.NoError(t, err)
	assert.Equal(t, "u1", ident.ID)
}

func TestDevBypass(t *testing.T) {
	auth := NewAuthenticator(testSecret, true)

	req := httptest.NewRequest("GET", "/ws?teacherId=t1", nil)
	ident, err := auth.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: "t1", Role: RoleTeacher}, ident)

	req = httptest.NewRequest("GET", "/ws?studentId=s1", nil)
	ident, err = auth.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: "s1", Role: RoleStudent}, ident)
}

// The weaker query-parameter trust path must not be reachable when the
// bypass is disabled (production mode).
func TestDevBypassDisabled(t *testing.T) {
	auth := NewAuthenticator(testSecret, false)

	req := httptest.NewRequest("GET", "/ws?teacherId=t1", nil)
	_, err := auth.Authenticate(req)
	assert.ErrorIs(t, err, ErrAuthRequired)
}
