package routes

import (
	"github.com/gofiber/fiber/v2"

	"boardspace-backend/internal/api/routes/v1"
)

func Register(app *fiber.App, deps v1.Dependencies) {
	// API v1 group
	api := app.Group("/api")
	v1Group := api.Group("/v1")

	// Register v1 routes
	v1.RegisterRoutes(v1Group, deps)
}
