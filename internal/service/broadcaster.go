package service

// Broadcaster pushes messages to the playback surfaces connected to a
// session (implemented by the WebSocket hub; avoids an import cycle)
type Broadcaster interface {
	SendToSession(sessionID string, msgType string, payload interface{})
	CloseSession(sessionID string)
}
