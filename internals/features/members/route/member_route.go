package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/constants"
	"congregation_backend/internals/features/members/controller"
	authMiddleware "congregation_backend/internals/middlewares/auth"
)

func MemberRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMemberController(db)

	authed := authMiddleware.AuthMiddleware(db)
	admins := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("member management"), constants.AdminOnly...)

	api.Get("/members", authed, ctrl.List)
	api.Get("/members/me", authed, ctrl.Me)
	api.Post("/members/set-password", authed, ctrl.SetPassword)
	api.Post("/members", authed, admins, ctrl.Create)
	api.Get("/members/:id", authed, ctrl.Get)
	api.Put("/members/:id", authed, ctrl.Update)
	api.Patch("/members/:id", authed, ctrl.Update)
	api.Delete("/members/:id", authed, admins, ctrl.Delete)
}
