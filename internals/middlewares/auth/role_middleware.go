package auth

import (
	"github.com/gofiber/fiber/v2"

	"congregation_backend/internals/constants"
	helper "congregation_backend/internals/helpers"
	helperAuth "congregation_backend/internals/helpers/auth"
)

// RoleMiddlewareWithCustomError lets the request through when the caller's
// role is one of allowedRoles. It must run after AuthMiddleware.
func RoleMiddlewareWithCustomError(allowedRoles []constants.Role, customForbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := helperAuth.GetCaller(c)
		if caller == nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}
		if caller.Role.In(allowedRoles) {
			return c.Next()
		}
		if customForbiddenMessage == "" {
			customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
		}
		return helper.JsonError(c, fiber.StatusForbidden, customForbiddenMessage)
	}
}

func OnlyRoles(customMessage string, roles ...constants.Role) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}
