package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// от клиента приходят только ping-и
	maxFrameSize = 4 * 1024

	sendBuffer = 64
)

func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		Hub:    hub,
	}
}

// ReadPump держит соединение живым до закрытия клиентом или таймаута pong
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxFrameSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("user_id", c.UserID).Warn("websocket read")
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		c.handleFrame(raw)
	}
}

// handleFrame отвечает на прикладной ping, остальное считается ошибкой клиента
func (c *Client) handleFrame(raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.SendError(ErrInvalidMessage.Error())
		return
	}

	switch msg.Type {
	case TypePing:
		_ = c.SendMessage(TypePong, nil)
	case TypePong:
	default:
		c.SendError(ErrInvalidMessage.Error())
	}
}

// WritePump пишет уведомления из Send и шлёт ping по таймеру
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case payload, open := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !open {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logrus.WithError(err).WithField("user_id", c.UserID).Debug("websocket write")
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage не блокируется, при переполненной очереди возвращает ErrClientQueueFull
func (c *Client) SendMessage(msgType MessageType, data interface{}) error {
	payload, err := encode(msgType, data)
	if err != nil {
		return err
	}

	return c.enqueue(payload)
}

func (c *Client) enqueue(payload []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.Send <- payload:
		return nil
	default:
		return ErrClientQueueFull
	}
}

// closeSend закрывает Send один раз; WritePump после этого отправляет close-фрейм
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

func (c *Client) SendError(reason string) {
	_ = c.SendMessage(TypeError, map[string]string{"error": reason})
}
