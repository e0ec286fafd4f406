package v1

import (
	"github.com/gofiber/fiber/v2"

	"boardspace-backend/internal/handlers"
)

func registerItem(r fiber.Router, deps Dependencies) {
	itemHandler := handlers.NewItemHandler(deps.Items)

	r.Get("/items", itemHandler.GetAllItems)
	r.Post("/items", itemHandler.CreateItem)
	r.Get("/items/:itemId", itemHandler.GetItem)
	r.Put("/items/:itemId", itemHandler.UpdateItem)
	r.Delete("/items/:itemId", itemHandler.DeleteItem)
}
