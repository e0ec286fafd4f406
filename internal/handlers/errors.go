package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"boardspace-backend/internal/apperr"
)

// ErrorHandler turns errors returned by handlers into JSON responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		notFound *apperr.NotFoundError
		conflict *apperr.ConflictError
		fe       *fiber.Error
	)
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": apperr.FieldErrors(err),
		})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": conflict.Error()})
	case errors.As(err, &fe):
		if fe.Code >= fiber.StatusInternalServerError {
			slog.ErrorContext(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	slog.ErrorContext(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}
