package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"boardspace-backend/internal/config"
	"boardspace-backend/internal/handlers"
)

func NewServer(cfg config.HTTPConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		AppName:      "Boardspace Backend",
		BodyLimit:    10 * 1024 * 1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + cfg.IdentityHeader,
	}))

	return app
}

func StartServer(app *fiber.App, port string) error {
	if port == "" {
		port = "3000"
	}

	slog.Info("server starting", "port", port)
	return app.Listen(":" + port)
}
