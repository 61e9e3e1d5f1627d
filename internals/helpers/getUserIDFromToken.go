package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetMemberIDFromToken reads c.Locals("user_id") set by the auth middleware.
// 401 when not logged in, 400 when the stored value is not a UUID.
func GetMemberIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	var s string
	switch t := c.Locals("user_id").(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "not logged in")
		}
		return t, nil
	case string:
		s = strings.TrimSpace(t)
	case nil:
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid member id in token")
	}
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "not logged in")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid member id in token")
	}
	return id, nil
}

// ParseIDParam parses a UUID path parameter, 400 on failure.
func ParseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
