package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helperAuth "congregation_backend/internals/helpers/auth"
)

// SecondAuthMiddleware attaches the caller when the session is valid and lets
// every other request through as anonymous. Handlers decide what anonymous
// callers may do.
func SecondAuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helperAuth.GetCaller(c) != nil {
			return c.Next()
		}
		caller, err := resolveCaller(db, c)
		if err != nil {
			if err != errNoToken {
				log.Printf("[INFO] %s %s continuing as anonymous: %v", c.Method(), c.Path(), err)
			}
			return c.Next()
		}
		helperAuth.SetCaller(c, caller)
		return c.Next()
	}
}
