package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	config "github.com/skillswap/skillswap/configs"
	"github.com/skillswap/skillswap/errs"
	"github.com/skillswap/skillswap/services"
	ws "github.com/skillswap/skillswap/websocket"
)

type MessagingHandler struct {
	Chats *services.ChatService
	Hub   *ws.Hub
}

// ListConversations returns the caller's conversation list, derived from
// their session history.
func (h *MessagingHandler) ListConversations(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	conversations, err := h.Chats.ListConversations(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(conversations)
}

// GetMessages returns a conversation's history. Loading it counts as
// opening the conversation, so the unread messages from the other party are
// marked read as part of the request.
func (h *MessagingHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	chatID := c.Params("chatId")

	messages, err := h.Chats.Messages(c.Context(), chatID, userID)
	if err != nil {
		return err
	}
	if err := h.Chats.MarkRead(c.Context(), chatID, userID); err != nil {
		return err
	}
	return c.JSON(messages)
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *MessagingHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	chatID := c.Params("chatId")

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.E(errs.Invalid, "cannot parse JSON")
	}

	msg, err := h.Chats.SendMessage(c.Context(), chatID, userID, req.Text)
	if err != nil {
		return err
	}

	// Ping the recipient's conversation list; the open-conversation
	// snapshot stream picks the message up through the store bus.
	if a, b, err := services.ChatParticipants(chatID); err == nil {
		recipient := a
		if recipient == userID {
			recipient = b
		}
		h.Hub.Notify(ws.Event{Type: ws.EventConversationsUpdated, ChatID: chatID}, recipient)
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *MessagingHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.Chats.MarkRead(c.Context(), c.Params("chatId"), userID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Conversation marked as read"})
}

// parseToken validates the first-frame auth token of a websocket client.
func parseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}
	raw, _ := claims["user_id"].(string)
	return uuid.Parse(raw)
}
