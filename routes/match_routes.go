package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillswap/skillswap/handlers"
	"github.com/skillswap/skillswap/middleware"
)

func MatchRoutes(app *fiber.App, h *handlers.MatchHandler) {
	api := app.Group("/api/v1")

	matches := api.Group("/matches", middleware.Protected())
	matches.Get("/suggested", h.SuggestedMatches)
	matches.Get("/partners", h.PotentialPartners)
}
