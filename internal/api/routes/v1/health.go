package v1

import (
	"github.com/gofiber/fiber/v2"

	"boardspace-backend/internal/handlers"
)

func registerHealth(r fiber.Router, deps Dependencies) {
	r.Get("/health", handlers.NewHealthHandler(deps.Store).Health)
}
