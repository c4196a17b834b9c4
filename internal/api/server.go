package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"classroom-signaling/internal/chat"
	"classroom-signaling/internal/config"
	"classroom-signaling/internal/live"
	"classroom-signaling/internal/ws"
)

// Server is the HTTP surface: the websocket endpoint plus the read-only
// reporting endpoints over the room store.
type Server struct {
	app  *echo.Echo
	cfg  *config.Config
	hub  *live.Hub
	wsrv *ws.Handler
}

type activeRoomsResponse struct {
	Status string             `json:"status"`
	Data   []live.RoomSummary `json:"data"`
}

type chatRoomsResponse struct {
	Status string       `json:"status"`
	Data   []*chat.Room `json:"data"`
}

type webrtcStatusResponse struct {
	Status      string      `json:"status"`
	ActiveRooms int         `json:"activeRooms"`
	ICEServers  []iceServer `json:"iceServers"`
}

type iceServer struct {
	URLs string `json:"urls"`
}

// NewServer builds the echo app and registers routes and middleware.
func NewServer(cfg *config.Config, hub *live.Hub, wsHandler *ws.Handler) *Server {
	s := &Server{
		app:  echo.New(),
		cfg:  cfg,
		hub:  hub,
		wsrv: wsHandler,
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.Logger())
	if s.cfg.IsProduction() {
		s.app.Use(middleware.Recover())
	}
	if s.cfg.CORSOrigin != "" {
		s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     []string{s.cfg.CORSOrigin},
			AllowCredentials: true,
		}))
	}

	s.app.GET("/", s.home)
	s.app.GET("/ws", s.websocket)
	s.app.GET("/api/active-rooms", s.activeRooms)
	s.app.GET("/api/chat-rooms", s.chatRooms)
	s.app.GET("/api/webrtc-status", s.webrtcStatus)
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	return s.app.Start(s.cfg.Port)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// ServeHTTP makes the server usable with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(c echo.Context) error {
	return c.String(http.StatusOK, "Backend is working 🎉")
}

func (s *Server) websocket(c echo.Context) error {
	s.wsrv.HandleWebSocket(c.Response(), c.Request())
	return nil
}

// activeRooms serves the room summaries; read-only, consistent snapshot.
func (s *Server) activeRooms(c echo.Context) error {
	return c.JSON(http.StatusOK, activeRoomsResponse{
		Status: "success",
		Data:   s.hub.Store().Snapshot(),
	})
}

// chatRooms lists the persisted chat rooms.
func (s *Server) chatRooms(c echo.Context) error {
	rooms, err := s.hub.Chat().Rooms()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Failed to fetch chat rooms",
		})
	}
	return c.JSON(http.StatusOK, chatRoomsResponse{Status: "success", Data: rooms})
}

func (s *Server) webrtcStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, webrtcStatusResponse{
		Status:      "active",
		ActiveRooms: s.hub.Store().Count(),
		ICEServers:  []iceServer{{URLs: "stun:stun.l.google.com:19302"}},
	})
}
