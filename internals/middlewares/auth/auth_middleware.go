package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helperAuth "congregation_backend/internals/helpers/auth"
)

// AuthMiddleware rejects requests without a valid session.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helperAuth.GetCaller(c) != nil {
			return c.Next()
		}
		caller, err := resolveCaller(db, c)
		if err != nil {
			var ae *authError
			if errors.As(err, &ae) {
				return fiber.NewError(ae.Status, ae.Message)
			}
			return err
		}
		helperAuth.SetCaller(c, caller)
		return c.Next()
	}
}
