package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn is the subset of *websocket.Conn the hub touches. Tests substitute an
// in-memory implementation.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one connected terminal. A pong, an application-level ping or any
// readable message marks it alive; the hub's sweep drops connections that
// stayed silent for a whole sweep period.
type Client struct {
	id        uuid.UUID
	hub       *Hub
	conn      Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	alive     atomic.Bool
}

func (c *Client) ID() uuid.UUID { return c.id }

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// enqueue hands a frame to the write pump without blocking. A full buffer
// means the terminal cannot keep up; it gets dropped and may reconnect.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) sendMessage(msg ServerMessage) {
	frame, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal client message", "error", err.Error())
		return
	}
	if !c.enqueue(frame) {
		c.hub.drop(c)
	}
}

func (c *Client) sendError(code, message string) {
	c.sendMessage(ServerMessage{
		Type:      MsgError,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (c *Client) readPump() {
	defer c.hub.drop(c)

	c.conn.SetReadLimit(c.hub.cfg.MaxMessageLen)
	c.conn.SetPongHandler(func(string) error {
		c.alive.Store(true)
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read failed", "client_id", c.id, "error", err.Error())
			}
			return
		}
		c.alive.Store(true)
		c.hub.handleClientMessage(c, raw)
	}
}

func (c *Client) writePump() {
	defer func() { _ = c.conn.Close() }()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
