package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/constants"
	"congregation_backend/internals/features/activities/activity/controller"
	attendanceService "congregation_backend/internals/features/activities/attendance/service"
	authMiddleware "congregation_backend/internals/middlewares/auth"
)

func ActivityRoutes(api fiber.Router, db *gorm.DB, ledger *attendanceService.Ledger) {
	ctrl := controller.NewActivityController(db, ledger)

	authed := authMiddleware.AuthMiddleware(db)
	leaders := authMiddleware.OnlyRoles(constants.RoleErrorLeader("activity management"), constants.LeaderAndAbove...)
	admins := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("this action"), constants.AdminOnly...)

	api.Get("/activities", authed, ctrl.List)
	api.Post("/activities", authed, leaders, ctrl.Create)
	api.Get("/activities/:id", authed, ctrl.Get)
	api.Put("/activities/:id", authed, leaders, ctrl.Update)
	api.Delete("/activities/:id", authed, admins, ctrl.Delete)

	api.Get("/activities/:id/assign", authed, ctrl.GetAssignment)
	api.Put("/activities/:id/assign", authed, admins, ctrl.Assign)
}
