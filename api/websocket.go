package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Frame types exchanged over /ws/chat
const (
	FrameMessage = "message"
	FrameError   = "error"
)

// WSMessage is the JSON frame exchanged with websocket clients
type WSMessage struct {
	Type      string `json:"type"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// maxFrameSize caps a single inbound frame
const maxFrameSize = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsSession serialises writes to one websocket connection
type wsSession struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsSession) send(msg WSMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

// handleWebSocket greets the client, then answers every message frame in order
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.ready() {
		writeJSONError(w, http.StatusServiceUnavailable, "assistant not ready")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameSize)

	session := s.sessions.Open(TransportWebSocket)
	defer s.sessions.Close(session.ID)

	logger := s.logger.With("session", session.ID)
	logger.Info("chat session opened")
	defer logger.Info("chat session closed")

	ws := &wsSession{conn: conn}
	ctx := r.Context()

	greeting := WSMessage{Type: FrameMessage, Content: s.onStart(ctx), SessionID: session.ID}
	if err := ws.send(greeting); err != nil {
		logger.Warn("failed to send greeting", "error", err)
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			if err := ws.send(WSMessage{Type: FrameError, Content: "Invalid message format"}); err != nil {
				return
			}
			continue
		}

		if msg.Type != FrameMessage {
			if err := ws.send(WSMessage{Type: FrameError, Content: "Unsupported message type: " + msg.Type}); err != nil {
				return
			}
			continue
		}

		reply := s.onMessage(ctx, msg.Content)
		s.sessions.Touch(session.ID)

		if err := ws.send(WSMessage{Type: FrameMessage, Content: reply, SessionID: session.ID}); err != nil {
			logger.Warn("failed to send reply", "error", err)
			return
		}
	}
}
