package v1

import (
	"github.com/gofiber/fiber/v2"

	"boardspace-backend/internal/handlers"
)

func registerBoard(r fiber.Router, deps Dependencies) {
	// Initialize handler
	boardHandler := handlers.NewBoardHandler(deps.Boards, deps.Items)

	// Register routes
	r.Get("/boards", boardHandler.GetAllBoards)
	r.Post("/boards", boardHandler.CreateBoard)
	r.Get("/boards/:boardRef", boardHandler.GetBoard)
	r.Put("/boards/:boardRef", boardHandler.UpdateBoard)
	r.Delete("/boards/:boardRef", boardHandler.DeleteBoard)
	r.Put("/boards/:boardRef/thumbnail", boardHandler.UploadThumbnail)
	r.Get("/boards/:boardRef/items", boardHandler.GetBoardItems)
}
