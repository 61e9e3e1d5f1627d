package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError renders an error returned from a Transaction callback
// (usually *fiber.Error) in the standard envelope. Constraint violations keep
// their 4xx status; anything else is logged and becomes a 500.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	if status, msg := MapPGError(err); status < fiber.StatusInternalServerError {
		return JsonError(c, status, msg)
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	return JsonError(c, fiber.StatusInternalServerError, "")
}

// ErrorHandler is installed as fiber.Config.ErrorHandler so that errors returned
// by middlewares (auth, limiter, body limits) share the JSON envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromFiberError(c, err)
}
