package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"congregation_backend/internals/features/notifications/service"
	helper "congregation_backend/internals/helpers"
)

type NotificationController struct {
	Notifier *service.Notifier
}

func NewNotificationController(n *service.Notifier) *NotificationController {
	return &NotificationController{Notifier: n}
}

var validate = validator.New()

// GET /admin/notifications?limit=
func (h *NotificationController) List(c *fiber.Ctx) error {
	rows, err := h.Notifier.List(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"notifications": rows})
}

// POST /admin/notify-registration
// Public: the sender has no account yet.
func (h *NotificationController) NotifyRegistration(c *fiber.Ctx) error {
	var req service.RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if _, err := h.Notifier.RequestRegistration(c.UserContext(), req); err != nil {
		return helper.FromFiberError(c, err)
	}
	log.Printf("[INFO] registration request from %s", req.Phone)
	return helper.JsonCreated(c, "Request sent", fiber.Map{"ok": true})
}

// POST /admin/notify-birthdays?days=
func (h *NotificationController) NotifyBirthdays(c *fiber.Ctx) error {
	n, err := h.Notifier.Birthdays(c.UserContext(), c.QueryInt("days", 0))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"ok": true, "created": n})
}
