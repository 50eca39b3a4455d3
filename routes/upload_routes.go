package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillswap/skillswap/handlers"
	"github.com/skillswap/skillswap/middleware"
)

func UploadRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	uploads := api.Group("/uploads", middleware.Protected())
	uploads.Get("/signature", handlers.GenerateUploadSignature)
}
