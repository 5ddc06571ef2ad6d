package chathub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/messaging"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
	sendTimeout    = 10 * time.Second
)

// Envelope is the wire frame for every websocket exchange.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinRoomData struct {
	OtherUserID string `json:"otherUserId"`
}

type sendMessageData struct {
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	Type       string `json:"type"`
}

// Client is one authenticated websocket connection. Identity is fixed at
// handshake time and never taken from frames.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	userID string
	role   types.Role

	// room and closed are owned by the hub run loop
	room   string
	closed bool
}

func newClient(h *Hub, conn *websocket.Conn, userID string, role types.Role) *Client {
	return &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 32),
		userID: userID,
		role:   role,
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warnw("websocket read error", "user_id", c.userID, "err", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendError("malformed frame")
			continue
		}

		switch env.Event {
		case "joinRoom":
			var data joinRoomData
			if err := json.Unmarshal(env.Data, &data); err != nil || data.OtherUserID == "" {
				c.sendError("joinRoom requires otherUserId")
				continue
			}
			c.hub.join <- joinRequest{client: c, roomKey: messaging.DeriveRoomKey(c.userID, data.OtherUserID)}

		case "sendMessage":
			var data sendMessageData
			if err := json.Unmarshal(env.Data, &data); err != nil {
				c.sendError("malformed sendMessage frame")
				continue
			}
			c.handleSend(data)

		default:
			c.sendError("unknown event")
		}
	}
}

// handleSend persists through the canonical write path first, then fans the
// stored message out to the room. A failed store never reaches other clients.
func (c *Client) handleSend(data sendMessageData) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	msg, err := c.hub.messages.Send(ctx, messaging.SendInput{
		SenderID:   c.userID,
		SenderRole: c.role,
		ReceiverID: data.ReceiverID,
		Kind:       types.MessageKind(data.Type),
		Content:    data.Text,
	})
	if err != nil {
		c.hub.log.Warnw("websocket message rejected", "user_id", c.userID, "err", err)
		c.sendError(err.Error())
		return
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return
	}
	payload, _ := json.Marshal(Envelope{Event: "receiveMessage", Data: body})
	c.hub.broadcast <- outbound{roomKey: msg.RoomKey, payload: payload}
}

func (c *Client) sendError(message string) {
	body, _ := json.Marshal(map[string]string{"message": message})
	payload, _ := json.Marshal(Envelope{Event: "error", Data: body})
	select {
	case c.send <- payload:
	default:
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
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
