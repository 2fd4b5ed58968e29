package srv

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pokeidle/server/combat"
	"pokeidle/shared/protocol"
)

// closeReplaced is sent to a connection superseded by a newer one for the
// same account.
const closeReplaced = 4000

const (
	sendBuffer   = 64
	maxMessage   = 4096
	writeTimeout = 10 * time.Second
)

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	id      int64
	userID  int64
	session *combat.Session
	bucket  tokenBucket
}

func newClient(conn *websocket.Conn, userID int64, s *combat.Session) *client {
	return &client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		id:      protocol.NewSessionID(),
		userID:  userID,
		session: s,
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// kick tells the peer why it is being dropped, then closes.
func (c *client) kick(code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	c.close()
}

func (c *client) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *client) reader(ctx context.Context, h *Hub) {
	c.conn.SetReadLimit(maxMessage)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read", zap.Int64("user_id", c.userID), zap.Error(err))
			}
			return
		}
		var env protocol.MsgEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.sendJSON(protocol.MsgError, protocol.ErrorMsg{Message: "malformed message", Code: "BAD_MESSAGE"})
			continue
		}
		if err := h.handle(ctx, c, env); err != nil {
			h.log.Error("handle message", zap.Int64("user_id", c.userID), zap.String("type", env.Type), zap.Error(err))
			c.sendJSON(protocol.MsgError, protocol.ErrorMsg{Message: "internal error"})
		}
	}
}

func (c *client) writer() {
	defer c.close()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

// sendJSON queues one envelope. A full buffer drops the message.
func (c *client) sendJSON(typ string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	out, err := json.Marshal(protocol.MsgEnvelope{Type: typ, Data: b})
	if err != nil {
		return
	}
	select {
	case c.send <- out:
	default:
	}
}
