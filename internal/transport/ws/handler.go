package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"nishtha/internal/logger"
	"nishtha/internal/model"
	"nishtha/internal/player"
	"nishtha/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// TokenValidator validates learner tokens
type TokenValidator interface {
	ValidateLearnerToken(token string) (*model.LearnerClaims, error)
}

// SessionDriver is the part of the session service the playback surface
// talks back to
type SessionDriver interface {
	Authorize(ctx context.Context, email, id string) error
	Snapshot(ctx context.Context, email, id string) (player.Snapshot, error)
	TimeUpdate(ctx context.Context, email, id string, elapsed float64) (player.Snapshot, error)
	MediaEnded(ctx context.Context, email, id string) (player.Snapshot, error)
	PlaybackChange(ctx context.Context, email, id string, playing bool) (player.Snapshot, error)
}

// ClientMessage is an event from the playback surface
type ClientMessage struct {
	Type    string  `json:"type"` // time, ended, playing, paused
	Elapsed float64 `json:"elapsed,omitempty"`
}

// Handler handles WebSocket connections
type Handler struct {
	hub      *Hub
	auth     TokenValidator
	sessions SessionDriver
	log      *logger.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, auth TokenValidator, sessions SessionDriver, log *logger.Logger) *Handler {
	return &Handler{
		hub:      hub,
		auth:     auth,
		sessions: sessions,
		log:      log,
	}
}

// SessionWS handles GET /v1/ws/sessions/{id}
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.auth.ValidateLearnerToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if err := h.sessions.Authorize(r.Context(), claims.Email, id); err != nil {
		status := http.StatusForbidden
		if errors.Is(err, service.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	conn := &Connection{
		SessionID: id,
		Email:     claims.Email,
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}

	h.hub.Register(conn)

	if snap, err := h.sessions.Snapshot(r.Context(), claims.Email, id); err == nil {
		h.hub.SendToConnection(conn, string(MsgSnapshot), snap)
	}

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("websocket read failed", "session", conn.SessionID, "error", err)
			}
			break
		}
		h.handleClientMessage(conn, data)
	}
}

// handleClientMessage forwards playback events to the player. Failures go
// back to the sender as an error message; the connection stays open.
func (h *Handler) handleClientMessage(conn *Connection, data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.hub.SendToConnection(conn, string(MsgError), map[string]string{"error": "malformed message"})
		return
	}

	ctx := context.Background()
	var err error
	switch msg.Type {
	case "time":
		_, err = h.sessions.TimeUpdate(ctx, conn.Email, conn.SessionID, msg.Elapsed)
	case "ended":
		_, err = h.sessions.MediaEnded(ctx, conn.Email, conn.SessionID)
	case "playing":
		_, err = h.sessions.PlaybackChange(ctx, conn.Email, conn.SessionID, true)
	case "paused":
		_, err = h.sessions.PlaybackChange(ctx, conn.Email, conn.SessionID, false)
	default:
		h.hub.SendToConnection(conn, string(MsgError), map[string]string{"error": "unknown message type " + msg.Type})
		return
	}
	if err != nil {
		h.hub.SendToConnection(conn, string(MsgError), map[string]string{"error": err.Error()})
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
