package ws

import (
	"context"
	"encoding/json"
	"time"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// incomingMessage is the envelope clients send over the socket.
type incomingMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	userID  string
	conn    *websocket.Conn
	send    chan interface{}
	manager *Manager
	chat    services.ChatService
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", "user_id", c.userID, "error", err)
			}
			return
		}

		var msg incomingMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Warn("unparseable websocket message", "user_id", c.userID, "error", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				logger.Warn("websocket write error", "user_id", c.userID, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg incomingMessage) {
	switch msg.Action {
	case "send_message":
		var payload struct {
			DialogID      string `json:"dialog_id"`
			Content       string `json:"content"`
			AttachmentURL string `json:"attachment_url"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			logger.Warn("invalid send_message payload", "user_id", c.userID, "error", err)
			return
		}

		req := &dto.SendMessageRequest{
			Content:       payload.Content,
			AttachmentURL: payload.AttachmentURL,
		}

		// The service broadcasts to the recipient; echo the stored
		// message back to the sender's own socket.
		created, err := c.chat.SendMessage(context.Background(), c.userID, payload.DialogID, req)
		if err != nil {
			c.send <- map[string]interface{}{"error": err.Error()}
			return
		}
		c.send <- created

	default:
		logger.Debug("unhandled websocket action", "user_id", c.userID, "action", msg.Action)
	}
}
