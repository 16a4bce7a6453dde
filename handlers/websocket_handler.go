package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/trackops/startline/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin enforcement is handled by the CORS middleware.
		return true
	},
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// MeetUpdates upgrades the connection and subscribes it to the meet's
// live room.
func (h *WebSocketHandler) MeetUpdates(w http.ResponseWriter, r *http.Request) {
	meetID, err := urlIntParam(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			slog.Int("meet_id", meetID),
			slog.Any("error", err))
		return
	}

	h.hub.NewClient(conn, live.MeetRoom(meetID))
}
