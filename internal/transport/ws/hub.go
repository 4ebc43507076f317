package ws

import (
	"encoding/json"
	"sync"

	"nishtha/internal/logger"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Playback surface commands
const (
	MsgPause MessageType = "pause"
	MsgPlay  MessageType = "play"
	MsgSeek  MessageType = "seek"
)

// Learner notifications
const (
	MsgCheckpoint     MessageType = "checkpoint"
	MsgCourseComplete MessageType = "course_complete"
	MsgNotice         MessageType = "notice"
	MsgSnapshot       MessageType = "snapshot"
	MsgError          MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans out messages to the connections watching a player session.
// A learner may have the same session open in several tabs.
type Hub struct {
	conns map[string]map[*Connection]struct{} // sessionID -> connections

	mu  sync.RWMutex
	log *logger.Logger

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	closing    chan string
}

// Connection represents a WebSocket connection bound to one session
type Connection struct {
	SessionID string
	Email     string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message for every connection of a session, or only
// for Target when it is set
type BroadcastMessage struct {
	SessionID string
	Target    *Connection
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub(log *logger.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		log:        log,
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		closing:    make(chan string, 64),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[*Connection]struct{})
			}
			h.conns[conn.SessionID][conn] = struct{}{}
			h.mu.Unlock()
			h.log.Debug("ws connected", "session", conn.SessionID, "email", conn.Email)

		case conn := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.conns[conn.SessionID]; ok {
				if _, ok := set[conn]; ok {
					delete(set, conn)
					close(conn.Send)
					if len(set) == 0 {
						delete(h.conns, conn.SessionID)
					}
					h.log.Debug("ws disconnected", "session", conn.SessionID)
				}
			}
			h.mu.Unlock()

		case id := <-h.closing:
			h.mu.Lock()
			for conn := range h.conns[id] {
				close(conn.Send)
			}
			delete(h.conns, id)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.log.Warn("ws marshal failed", "session", msg.SessionID, "error", err)
				continue
			}
			h.mu.RLock()
			for conn := range h.conns[msg.SessionID] {
				if msg.Target != nil && conn != msg.Target {
					continue
				}
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Connections reports how many connections watch a session
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[sessionID])
}

// SendToSession queues a message for a session (implements service.Broadcaster).
// It never blocks: callers hold the player lock.
func (h *Hub) SendToSession(sessionID string, msgType string, payload interface{}) {
	h.enqueue(sessionID, nil, msgType, payload)
}

// SendToConnection queues a message for one connection only. It is
// dropped if the connection has already been closed.
func (h *Hub) SendToConnection(conn *Connection, msgType string, payload interface{}) {
	h.enqueue(conn.SessionID, conn, msgType, payload)
}

func (h *Hub) enqueue(sessionID string, target *Connection, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("ws payload marshal failed", "session", sessionID, "type", msgType, "error", err)
		return
	}
	msg := &BroadcastMessage{
		SessionID: sessionID,
		Target:    target,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("ws broadcast queue full, dropping", "session", sessionID, "type", msgType)
	}
}

// CloseSession disconnects every connection of a session (implements service.Broadcaster)
func (h *Hub) CloseSession(sessionID string) {
	select {
	case h.closing <- sessionID:
	default:
		h.log.Warn("ws close queue full", "session", sessionID)
	}
}
