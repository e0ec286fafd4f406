package v1

import (
	"github.com/gofiber/fiber/v2"

	"boardspace-backend/internal/auth"
	"boardspace-backend/internal/repo"
	"boardspace-backend/internal/service"
)

// Dependencies are the services the v1 handlers are built from.
type Dependencies struct {
	Store          *repo.Store
	Boards         *service.BoardService
	Items          *service.ItemService
	IdentityHeader string
}

func RegisterRoutes(r fiber.Router, deps Dependencies) {
	// health is registered before the identity check
	registerHealth(r, deps)

	protected := r.Group("", auth.RequireUser(deps.IdentityHeader))
	registerBoard(protected, deps)
	registerItem(protected, deps)
}
