package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillswap/skillswap/handlers"
	"github.com/skillswap/skillswap/middleware"
)

func SessionRoutes(app *fiber.App, h *handlers.SessionHandler) {
	api := app.Group("/api/v1")

	sessions := api.Group("/sessions", middleware.Protected())
	sessions.Get("/me", h.ListMine)
	sessions.Get("/upcoming", h.Upcoming)
	sessions.Post("", h.Create)
	sessions.Post("/:sessionId/accept", h.Accept)
	sessions.Post("/:sessionId/decline", h.Decline)
	sessions.Post("/:sessionId/join", h.Join)
	sessions.Post("/:sessionId/cancel", h.Cancel)
	sessions.Post("/:sessionId/reschedule", h.Reschedule)
}
