package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/hisab-io/hisab/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware and the token
	// check, not by the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsCommand is a client -> server subscription request.
type wsCommand struct {
	Action  string `json:"action"`
	GroupID string `json:"groupId"`
}

// handleWS upgrades the connection and serves join/leave commands until the
// client disconnects. Joining a group channel requires membership; a denied
// join is ignored rather than closing the connection.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WS upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := s.hub.Register(conn, userID)
	defer s.hub.Unregister(client)

	for {
		var cmd wsCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("WS read failed", "user_id", userID, "error", err)
			}
			return
		}

		switch cmd.Action {
		case "join":
			if _, err := s.groups.GetGroup(r.Context(), userID, cmd.GroupID); err != nil {
				slog.Warn("WS join denied", "user_id", userID, "group_id", cmd.GroupID, "error", err)
				continue
			}
			s.hub.Join(client, cmd.GroupID)
			slog.Debug("WS joined group channel", "user_id", userID, "group_id", cmd.GroupID)
		case "leave":
			s.hub.Leave(client, cmd.GroupID)
		default:
			slog.Debug("WS unknown action ignored", "user_id", userID, "action", cmd.Action)
		}
	}
}
