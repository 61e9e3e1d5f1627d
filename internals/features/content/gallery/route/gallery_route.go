package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/configs"
	"congregation_backend/internals/constants"
	"congregation_backend/internals/features/content/gallery/controller"
	"congregation_backend/internals/middlewares"
	authMiddleware "congregation_backend/internals/middlewares/auth"
)

func GalleryRoutes(api fiber.Router, db *gorm.DB, cfg *configs.Config) {
	ctrl := controller.NewGalleryController(db, cfg.UploadDir, cfg.GalleryMaxWidth)

	authed := authMiddleware.AuthMiddleware(db)
	admins := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("the gallery"), constants.AdminOnly...)

	api.Get("/gallery", ctrl.List)
	api.Post("/gallery", middlewares.UploadRateLimiter(), authed, admins, ctrl.Create)
	api.Delete("/gallery/:id", authed, admins, ctrl.Delete)
}
