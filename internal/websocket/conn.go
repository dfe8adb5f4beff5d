package websocket

import (
	"time"

	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/gorilla/websocket"
)

const maxMessageSize = 4 << 10

var (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10 // must stay below pongWait
)

// Conn is the upgraded dashboard connection
type Conn struct {
	*websocket.Conn
}

func (c *Conn) writeFrame(messageType int, data []byte) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.WriteMessage(messageType, data)
}

// ReadPump hands inbound frames to the hub until the dashboard disconnects,
// then unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("Dashboard connection dropped", map[string]interface{}{
					"user_id": c.UserID,
					"role":    c.Role,
					"error":   err.Error(),
				})
			}
			return
		}
		c.Hub.HandleClientMessage(c, message)
	}
}

// WritePump delivers queued order events and pings the dashboard. A closed
// queue means the hub dropped the client, so a close frame is sent.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if !ok {
				_ = c.Conn.writeFrame(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"))
				return
			}
			if err := c.deliver(message); err != nil {
				logger.Warn("Failed to deliver order event", map[string]interface{}{
					"user_id": c.UserID,
					"error":   err.Error(),
				})
				return
			}

		case <-ticker.C:
			if err := c.Conn.writeFrame(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// deliver writes message and whatever else is already queued, one frame each
func (c *Client) deliver(message []byte) error {
	if err := c.Conn.writeFrame(websocket.TextMessage, message); err != nil {
		return err
	}
	for pending := len(c.Send); pending > 0; pending-- {
		next, ok := <-c.Send
		if !ok {
			return nil
		}
		if err := c.Conn.writeFrame(websocket.TextMessage, next); err != nil {
			return err
		}
	}
	return nil
}
