package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/constants"
	"congregation_backend/internals/features/content/settings/controller"
	authMiddleware "congregation_backend/internals/middlewares/auth"
)

func SiteSettingRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewSiteSettingController(db)

	authed := authMiddleware.AuthMiddleware(db)
	admins := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("site settings"), constants.AdminOnly...)

	api.Get("/settings/landing", ctrl.GetLanding)
	api.Put("/settings/landing", authed, admins, ctrl.PutLanding)
	api.Post("/settings/landing", authed, admins, ctrl.PutLanding)
}
