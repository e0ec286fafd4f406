package handlers

import (
	"github.com/gofiber/fiber/v2"

	"boardspace-backend/internal/auth"
	"boardspace-backend/internal/service"
)

type BoardHandler struct {
	boards *service.BoardService
	items  *service.ItemService
}

func NewBoardHandler(boards *service.BoardService, items *service.ItemService) *BoardHandler {
	return &BoardHandler{
		boards: boards,
		items:  items,
	}
}

// function to get all boards of the caller
func (h *BoardHandler) GetAllBoards(c *fiber.Ctx) error {
	boards, err := h.boards.ListBoards(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"boards": boards,
	})
}

// function to create a board
func (h *BoardHandler) CreateBoard(c *fiber.Ctx) error {
	var dto service.BoardInput
	if err := parseBody(c, &dto); err != nil {
		return err
	}

	board, err := h.boards.CreateBoard(c.UserContext(), auth.UserID(c), dto)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"board":   board,
		"message": "Board created successfully",
	})
}

// function to get a board with the breadcrumbs of the open folder
func (h *BoardHandler) GetBoard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	board, err := h.boards.ResolveOwnedBoard(ctx, auth.UserID(c), c.Params("boardRef"))
	if err != nil {
		return err
	}

	crumbs, err := h.boards.BuildBreadcrumbs(ctx, board, c.Query("f"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"board":       board,
		"breadcrumbs": crumbs,
	})
}

// function to update title and description
func (h *BoardHandler) UpdateBoard(c *fiber.Ctx) error {
	var dto service.BoardInput
	if err := parseBody(c, &dto); err != nil {
		return err
	}

	board, err := h.boards.UpdateBoard(c.UserContext(), auth.UserID(c), c.Params("boardRef"), dto)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"board": board,
	})
}

// function to delete a board with all of its items
func (h *BoardHandler) DeleteBoard(c *fiber.Ctx) error {
	if err := h.boards.DeleteBoard(c.UserContext(), auth.UserID(c), c.Params("boardRef")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Board deleted successfully",
	})
}

// function to store the rendered board image
func (h *BoardHandler) UploadThumbnail(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "No image provided")
	}
	f, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid image")
	}
	defer f.Close()

	contentType := file.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = "image/png"
	}
	board, err := h.boards.SetThumbnail(c.UserContext(), auth.UserID(c), c.Params("boardRef"), contentType, f)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"board":   board,
		"message": "Thumbnail saved successfully",
	})
}

// function to list one folder level of a board
func (h *BoardHandler) GetBoardItems(c *fiber.Ctx) error {
	items, err := h.items.ListItems(c.UserContext(), auth.UserID(c), c.Params("boardRef"), c.Query("f"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"items": items,
	})
}
