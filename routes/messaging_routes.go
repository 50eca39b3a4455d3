package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/skillswap/skillswap/handlers"
	"github.com/skillswap/skillswap/middleware"
)

func MessagingRoutes(app *fiber.App, h *handlers.MessagingHandler, wsHandler *handlers.WsHandler) {
	api := app.Group("/api/v1")

	conversations := api.Group("/conversations", middleware.Protected())
	conversations.Get("", h.ListConversations)
	conversations.Get("/:chatId/messages", h.GetMessages)
	conversations.Post("/:chatId/messages", h.SendMessage)
	conversations.Post("/:chatId/read", h.MarkRead)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(wsHandler.ServeWs))
}
