package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const localsUserID = "user_id"

// UserID returns the caller set by RequireUser. uuid.Nil if not set.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, ok := c.Locals(localsUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// RequireUser reads the caller id from the given header, as forwarded by the
// session gateway, and stores it on the request. Missing or malformed ids get
// a 401.
func RequireUser(header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get(header))
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authorization required"})
		}
		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authorization required"})
		}
		c.Locals(localsUserID, id)
		return c.Next()
	}
}
