package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/features/users/auth/controller"
	rateLimiter "congregation_backend/internals/middlewares"
	authMiddleware "congregation_backend/internals/middlewares/auth"
)

// AuthRoutes mounts /auth under api.
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	auth.Post("/register", rateLimiter.LoginRateLimiter(), authController.Register)
	auth.Post("/logout", authController.Logout)
	auth.Get("/me", authMiddleware.AuthMiddleware(db), authController.Me)
}
