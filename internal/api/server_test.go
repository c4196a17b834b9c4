package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom-signaling/internal/chat"
	"classroom-signaling/internal/config"
	"classroom-signaling/internal/identity"
	"classroom-signaling/internal/live"
	"classroom-signaling/internal/protocol"
	"classroom-signaling/internal/ws"
)

type stubConn struct {
	id    string
	ident identity.Identity
}

func (s *stubConn) ID() string                  { return s.id }
func (s *stubConn) Identity() identity.Identity { return s.ident }
func (s *stubConn) Send(protocol.ServerMessage) {}

func newTestServer(t *testing.T) (*Server, *live.Hub, *chat.MemoryRepository) {
	t.Helper()
	cfg := &config.Config{Env: "test", Port: ":0"}
	repo := chat.NewMemoryRepository()
	hub := live.NewHub(chat.NewService(repo))
	auth := identity.NewAuthenticator("test-secret", false)
	handler := ws.NewHandler(hub, auth, cfg)
	return NewServer(cfg, hub, handler), hub, repo
}

func TestHome(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Backend is working")
}

func TestActiveRoomsEmpty(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/active-rooms", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp activeRoomsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Empty(t, resp.Data)
}

func TestActiveRoomsReflectsStore(t *testing.T) {
	srv, hub, _ := newTestServer(t)

	teacher := &stubConn{id: "conn-t", ident: identity.Identity{ID: "t1", Role: identity.RoleTeacher}}
	_, err := hub.Store().Create("math101", "c1", "t1", teacher)
	require.NoError(t, err)
	student := &stubConn{id: "conn-s", ident: identity.Identity{ID: "s1", Role: identity.RoleStudent}}
	_, err = hub.Store().Join("math101", "s1", student)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/active-rooms", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp activeRoomsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "math101", resp.Data[0].RoomID)
	assert.Equal(t, "c1", resp.Data[0].CourseID)
	assert.Equal(t, "t1", resp.Data[0].TeacherID)
	assert.Equal(t, 1, resp.Data[0].StudentCount)
}

func TestChatRooms(t *testing.T) {
	srv, _, repo := newTestServer(t)
	repo.AddRoom(&chat.Room{ID: "general", Name: "General", CreatedAt: time.Now()})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat-rooms", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatRoomsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "general", resp.Data[0].ID)
	assert.Equal(t, "General", resp.Data[0].Name)
}

func TestWebRTCStatus(t *testing.T) {
	srv, hub, _ := newTestServer(t)

	teacher := &stubConn{id: "conn-t", ident: identity.Identity{ID: "t1", Role: identity.RoleTeacher}}
	_, err := hub.Store().Create("math101", "c1", "t1", teacher)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/webrtc-status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp webrtcStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, 1, resp.ActiveRooms)
	require.Len(t, resp.ICEServers, 1)
	assert.Equal(t, "stun:stun.l.google.com:19302", resp.ICEServers[0].URLs)
}

func TestWebSocketRequiresAuth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
