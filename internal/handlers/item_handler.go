package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"boardspace-backend/internal/apperr"
	"boardspace-backend/internal/auth"
	"boardspace-backend/internal/itemable"
	"boardspace-backend/internal/optional"
	"boardspace-backend/internal/service"
)

// itemRequest is the body of item create and update calls: the container
// keys plus every type specific field.
type itemRequest struct {
	Type       optional.Field[string] `json:"type"`
	BoardID    optional.Field[uint]   `json:"board_id"`
	BoardUUID  optional.Field[string] `json:"board_uuid"`
	FolderUUID optional.Field[string] `json:"folder_uuid"`
	itemable.Geometry
	itemable.Fields
}

type ItemHandler struct {
	items *service.ItemService
}

func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

func itemID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("itemId"), 10, 0)
	if err != nil || id == 0 {
		return 0, apperr.NotFound("item")
	}
	return uint(id), nil
}

// function to list every item of the caller
func (h *ItemHandler) GetAllItems(c *fiber.Ctx) error {
	items, err := h.items.ListAllItems(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"items": items,
	})
}

func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	var req itemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	typ, _ := req.Type.Get()
	item, err := h.items.CreateItem(c.UserContext(), auth.UserID(c), service.CreateItemInput{
		Type:       typ,
		BoardID:    req.BoardID,
		BoardUUID:  req.BoardUUID,
		FolderUUID: req.FolderUUID,
		Geometry:   req.Geometry,
		Fields:     req.Fields,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"item": item,
	})
}

func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}
	item, err := h.items.GetItem(c.UserContext(), auth.UserID(c), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"item": item,
	})
}

// function to move, resize or edit an item
func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}
	var req itemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	item, err := h.items.UpdateItem(c.UserContext(), auth.UserID(c), id, service.UpdateItemInput{
		Type:       req.Type,
		FolderUUID: req.FolderUUID,
		Geometry:   req.Geometry,
		Fields:     req.Fields,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"item": item,
	})
}

func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}
	if err := h.items.DeleteItem(c.UserContext(), auth.UserID(c), id); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Item deleted successfully",
	})
}
