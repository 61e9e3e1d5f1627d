package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/configs"
	"congregation_backend/internals/constants"
	"congregation_backend/internals/features/contributions/controller"
	"congregation_backend/internals/features/contributions/service"
	authMiddleware "congregation_backend/internals/middlewares/auth"
	rateLimiter "congregation_backend/internals/middlewares"
)

func ContributionRoutes(api fiber.Router, db *gorm.DB, ledger *service.Ledger, cfg *configs.Config) {
	ctrl := controller.NewContributionController(ledger, cfg.ContributionPasskey)

	authed := authMiddleware.AuthMiddleware(db)
	admins := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("contributions"), constants.AdminOnly...)

	// static paths before /:id
	api.Get("/contributions/summary", authed, ctrl.Summary)
	api.Get("/contributions/last-amount", authed, admins, ctrl.LastAmount)
	api.Post("/contributions/verify-passkey", rateLimiter.LoginRateLimiter(), authed, admins, ctrl.VerifyPasskey)

	api.Get("/contributions", authed, ctrl.List)
	api.Post("/contributions", authed, admins, ctrl.Create)
	api.Get("/contributions/:id", authed, ctrl.Get)
	api.Post("/contributions/:id", authed, admins, ctrl.Submit)
	api.Patch("/contributions/:id", authed, admins, ctrl.Patch)
	api.Delete("/contributions/:id", authed, admins, ctrl.Delete)
	api.Patch("/contributions/:id/lock", authed, admins, ctrl.Lock)
	api.Put("/contributions/:id/member", authed, admins, ctrl.UpsertMember)
	api.Delete("/contributions/:id/member", authed, admins, ctrl.DeleteMember)

	api.Get("/members/:id/contributions", authed, ctrl.MemberContributions)

	api.Get("/expenses", authed, admins, ctrl.ListExpenses)
	api.Post("/expenses", authed, admins, ctrl.CreateExpense)
	api.Patch("/expenses/:id", authed, admins, ctrl.PatchExpense)
	api.Delete("/expenses/:id", authed, admins, ctrl.DeleteExpense)
}
