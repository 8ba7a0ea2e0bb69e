package chat

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one WebSocket connection of one authenticated user.
type Client struct {
	UserID      string
	Username    string
	Conn        *websocket.Conn
	SendChannel chan []byte
	Hub         *Hub
}

func NewClient(userID, username string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID:      userID,
		Username:    username,
		Conn:        conn,
		SendChannel: make(chan []byte, 256),
		Hub:         hub,
	}
}

// ReadPump reads inbound events until the connection drops.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("chat read error", "user_id", c.UserID, "error", err)
			}
			return
		}

		ev, err := parseInbound(data)
		if err != nil {
			c.send(newErrorEvent("malformed event"))
			continue
		}
		c.Hub.handleInbound(c, ev)
	}
}

// WritePump drains the send channel and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.SendChannel:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) send(event *OutboundEvent) {
	payload, err := event.ToJSON()
	if err != nil {
		slog.Error("failed to marshal chat event", "error", err)
		return
	}
	select {
	case c.SendChannel <- payload:
	default:
	}
}
