package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/configs"
	"congregation_backend/internals/constants"
	"congregation_backend/internals/features/content/announcements/controller"
	authMiddleware "congregation_backend/internals/middlewares/auth"
)

func AnnouncementRoutes(api fiber.Router, db *gorm.DB, cfg *configs.Config) {
	ctrl := controller.NewAnnouncementController(db, cfg.UploadDir, cfg.GalleryMaxWidth)

	authed := authMiddleware.AuthMiddleware(db)
	admins := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("announcements"), constants.AdminOnly...)

	api.Get("/announcements", ctrl.List)
	api.Post("/announcements", authed, admins, ctrl.Create)
	api.Put("/announcements/:id", authed, admins, ctrl.Update)
	api.Patch("/announcements/:id", authed, admins, ctrl.Update)
	api.Delete("/announcements/:id", authed, admins, ctrl.Delete)
}
