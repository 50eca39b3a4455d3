package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	config "github.com/skillswap/skillswap/configs"
	"github.com/skillswap/skillswap/database"
	"github.com/skillswap/skillswap/handlers"
	"github.com/skillswap/skillswap/jobs"
	"github.com/skillswap/skillswap/notifications"
	"github.com/skillswap/skillswap/routes"
	"github.com/skillswap/skillswap/services"
	"github.com/skillswap/skillswap/store"
	ws "github.com/skillswap/skillswap/websocket"
)

func main() {
	db, err := database.Connect(config.Config("DATABASE_URL"))
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	log.Println("✅ Database connected and migrated successfully")

	var email notifications.Sender = notifications.NopSender{}
	if brevo := notifications.NewBrevoService(
		config.Config("BREVO_API_KEY"),
		config.Config("EMAIL_SENDER"),
		config.Config("EMAIL_SENDER_NAME"),
	); brevo != nil {
		email = brevo
		log.Println("✅ Email service initialized successfully")
	}

	st := store.New(db)
	matchService := services.NewMatchService(st)
	sessionService := services.NewSessionService(st)
	chatService := services.NewChatService(st)

	hub := ws.NewHub()
	go hub.Run()

	c := cron.New()
	c.AddFunc("*/15 * * * *", jobs.NewReminderJob(st, email).Run)
	c.Start()
	log.Println("✅ Cron job for session reminders scheduled successfully")

	app := fiber.New(fiber.Config{
		AppName:       "SkillSwap",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.AuthRoutes(app, &handlers.AuthHandler{Store: st, Email: email})
	routes.ProfileRoutes(app, &handlers.ProfileHandler{Store: st})
	routes.MatchRoutes(app, &handlers.MatchHandler{Store: st, Matches: matchService})
	routes.SessionRoutes(app, &handlers.SessionHandler{Store: st, Sessions: sessionService, Hub: hub})
	routes.MessagingRoutes(app,
		&handlers.MessagingHandler{Chats: chatService, Hub: hub},
		&handlers.WsHandler{Chats: chatService, Hub: hub})
	routes.UploadRoutes(app)

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
