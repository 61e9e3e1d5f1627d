package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/features/activities/attendance/controller"
	"congregation_backend/internals/features/activities/attendance/service"
	authMiddleware "congregation_backend/internals/middlewares/auth"
)

// AttendanceRoutes mounts the attendance endpoints. The session is optional
// here: the ledger itself refuses writes from anonymous callers.
func AttendanceRoutes(api fiber.Router, db *gorm.DB, ledger *service.Ledger) {
	ctrl := controller.NewAttendanceController(ledger)
	optional := authMiddleware.SecondAuthMiddleware(db)

	api.Get("/activities/:id/attendance/window", optional, ctrl.Window)
	api.Get("/activities/:id/attendance", optional, ctrl.List)
	api.Post("/activities/:id/attendance", optional, ctrl.FirstSave)
	api.Put("/activities/:id/attendance", optional, ctrl.Update)
}
