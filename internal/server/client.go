package server

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// command is what a front end may send over the socket
type command struct {
	Type string `json:"type"`
}

// Client is one websocket connection
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.New().String(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// ReadPump handles ping and dismiss commands until the connection closes
func (c *Client) ReadPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close() //nolint:errcheck
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Websocket read error", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}

		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			logger.Debug("Ignoring malformed websocket message", zap.String("client_id", c.id), zap.Error(err))
			continue
		}
		c.handle(cmd)
	}
}

func (c *Client) handle(cmd command) {
	switch cmd.Type {
	case "dismiss":
		if c.hub.onDismiss != nil {
			c.hub.onDismiss()
		}
	case "ping":
		data, err := json.Marshal(Event{Type: EventPong, Timestamp: time.Now()})
		if err != nil {
			return
		}
		select {
		case c.send <- data:
		default:
		}
	}
}

// WritePump delivers queued events and keeps the connection alive
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("Websocket write error", zap.String("client_id", c.id), zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
