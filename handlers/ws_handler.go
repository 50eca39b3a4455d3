package handlers

import (
	"context"
	"log"

	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap/models"
	"github.com/skillswap/skillswap/services"
	ws "github.com/skillswap/skillswap/websocket"
)

// WsHandler serves the live chat connection. The client authenticates with
// a first frame {"type":"auth","token":...}, then drives the connection
// with subscribe/message frames. Subscribing to a conversation opens a
// snapshot stream: every store change re-emits the full message list (and
// marks incoming messages read while the view is open).
type WsHandler struct {
	Chats *services.ChatService
	Hub   *ws.Hub
}

type wsInbound struct {
	Type   string `json:"type"`
	Token  string `json:"token,omitempty"`
	ChatID string `json:"chat_id,omitempty"`
	Text   string `json:"text,omitempty"`
}

func (h *WsHandler) ServeWs(c *websocketcontrib.Conn) {
	var authMsg wsInbound
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		log.Printf("WebSocket auth failed: invalid or missing auth message: %v", err)
		_ = c.WriteJSON(ws.Event{Type: ws.EventError, Payload: "Invalid or missing auth message"})
		c.Close()
		return
	}

	userID, err := parseToken(authMsg.Token)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid token: %v", err)
		_ = c.WriteJSON(ws.Event{Type: ws.EventError, Payload: "Invalid token"})
		c.Close()
		return
	}

	client := &ws.Client{UserID: userID, Conn: c}
	h.Hub.Register <- client
	defer func() {
		h.Hub.Unregister <- client
		c.Close()
	}()

	// One active conversation subscription per connection; switching
	// conversations cancels the previous stream so it cannot leak.
	var cancelStream context.CancelFunc
	defer func() {
		if cancelStream != nil {
			cancelStream()
		}
	}()

	for {
		var msg wsInbound
		if err := c.ReadJSON(&msg); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseAbnormalClosure) {
				log.Printf("WebSocket closed for client %s: %v", userID, err)
			} else {
				log.Printf("WebSocket read error for client %s: %v", userID, err)
			}
			return
		}

		switch msg.Type {
		case "subscribe":
			if cancelStream != nil {
				cancelStream()
				cancelStream = nil
			}
			ctx, cancel := context.WithCancel(context.Background())
			stream, err := h.Chats.StreamMessages(ctx, msg.ChatID, userID)
			if err != nil {
				cancel()
				_ = client.WriteEvent(ws.Event{Type: ws.EventError, ChatID: msg.ChatID, Payload: err.Error()})
				continue
			}
			cancelStream = cancel
			go h.pump(client, msg.ChatID, stream)

		case "message":
			if _, err := h.Chats.SendMessage(context.Background(), msg.ChatID, userID, msg.Text); err != nil {
				_ = client.WriteEvent(ws.Event{Type: ws.EventError, ChatID: msg.ChatID, Payload: err.Error()})
				continue
			}
			h.notifyRecipient(msg.ChatID, userID)

		default:
			_ = client.WriteEvent(ws.Event{Type: ws.EventError, Payload: "Unknown message type"})
		}
	}
}

// pump forwards conversation snapshots to the client until the stream is
// cancelled.
func (h *WsHandler) pump(client *ws.Client, chatID string, stream <-chan []models.Message) {
	for snapshot := range stream {
		ev := ws.Event{Type: ws.EventSnapshot, ChatID: chatID, Payload: snapshot}
		if err := client.WriteEvent(ev); err != nil {
			log.Printf("Error sending snapshot to client %s: %v", client.UserID, err)
			return
		}
	}
}

func (h *WsHandler) notifyRecipient(chatID string, sender uuid.UUID) {
	a, b, err := services.ChatParticipants(chatID)
	if err != nil {
		return
	}
	recipient := a
	if recipient == sender {
		recipient = b
	}
	h.Hub.Notify(ws.Event{Type: ws.EventConversationsUpdated, ChatID: chatID}, recipient)
}
