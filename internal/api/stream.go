package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lalith-99/collabsphere/internal/chat"
	"github.com/lalith-99/collabsphere/internal/middleware"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from another origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamAction is a message from the client. "select" moves the active channel.
type streamAction struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

// Stream handles GET /v1/chat/ws
//
// Every append to the session's message store is pushed as a chat.Change so
// the chat panel can refetch and scroll to the newest message. A slow client
// loses changes rather than blocking senders; each change carries the full
// sequence length, so the next one still tells it where to scroll.
func (h *ChatHandler) Stream(c *gin.Context) {
	store := middleware.GetSession(c).Chat

	// Subscribe first so no append between handshake and subscription is lost.
	changes := make(chan chat.Change, sendBuffer)
	cancel := store.Subscribe(func(ch chat.Change) {
		select {
		case changes <- ch:
		default:
		}
	})

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		cancel()
		// Upgrade already wrote the error response.
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		h.writePump(conn, changes, done)
	}()
	h.readPump(conn, store)

	cancel()
	close(done)
	<-finished
}

// readPump runs until the client goes away. It must be the only reader.
func (h *ChatHandler) readPump(conn *websocket.Conn, store *chat.Store) {
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var action streamAction
		if err := conn.ReadJSON(&action); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
		switch action.Action {
		case "select":
			if action.Channel != "" {
				store.SelectChannel(action.Channel)
			}
		default:
			h.logger.Debug("unknown stream action", zap.String("action", action.Action))
		}
	}
}

// writePump owns all writes and closes the connection when done is closed or
// a write fails.
func (h *ChatHandler) writePump(conn *websocket.Conn, changes <-chan chat.Change, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-done:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case ch := <-changes:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ch); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
