package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"congregation_backend/internals/constants"
)

// Caller is who is making the request, decoded once by the auth middleware.
type Caller struct {
	ID       uuid.UUID
	Role     constants.Role
	FullName string
}

const LocCaller = "caller"

func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == constants.RoleAdmin
}

func SetCaller(c *fiber.Ctx, caller *Caller) {
	c.Locals(LocCaller, caller)
	c.Locals("user_id", caller.ID.String())
	c.Locals("userRole", string(caller.Role))
}

// GetCaller returns nil for anonymous requests.
func GetCaller(c *fiber.Ctx) *Caller {
	if v, ok := c.Locals(LocCaller).(*Caller); ok && v != nil && v.ID != uuid.Nil {
		return v
	}
	return nil
}

func RequireCaller(c *fiber.Ctx) (*Caller, error) {
	caller := GetCaller(c)
	if caller == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return caller, nil
}
