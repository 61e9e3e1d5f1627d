package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/constants"
	"congregation_backend/internals/features/notifications/controller"
	"congregation_backend/internals/features/notifications/service"
	rateLimiter "congregation_backend/internals/middlewares"
	authMiddleware "congregation_backend/internals/middlewares/auth"
)

func NotificationRoutes(api fiber.Router, db *gorm.DB, notifier *service.Notifier) {
	ctrl := controller.NewNotificationController(notifier)

	authed := authMiddleware.AuthMiddleware(db)
	admins := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("notifications"), constants.AdminOnly...)
	leaders := authMiddleware.OnlyRoles(constants.RoleErrorLeader("birthday notifications"), constants.LeaderAndAbove...)

	admin := api.Group("/admin")
	admin.Get("/notifications", authed, admins, ctrl.List)
	admin.Post("/notify-registration", rateLimiter.LoginRateLimiter(), ctrl.NotifyRegistration)
	admin.Post("/notify-birthdays", authed, leaders, ctrl.NotifyBirthdays)
}
