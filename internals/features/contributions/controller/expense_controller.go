package controller

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"congregation_backend/internals/features/contributions/dto"
	helper "congregation_backend/internals/helpers"
)

// GET /expenses?eventId=
func (h *ContributionController) ListExpenses(c *fiber.Ctx) error {
	var eventID *uuid.UUID
	if s := strings.TrimSpace(c.Query("eventId")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "eventId is not a valid id")
		}
		eventID = &id
	}
	out, err := h.Ledger.ListExpenses(c.UserContext(), eventID)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"expenses": out})
}

// POST /expenses
func (h *ContributionController) CreateExpense(c *fiber.Ctx) error {
	var req dto.CreateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	e, err := h.Ledger.CreateExpense(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonCreated(c, "Expense recorded", e)
}

// PATCH /expenses/:id
func (h *ContributionController) PatchExpense(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.PatchExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	e, err := h.Ledger.PatchExpense(c.UserContext(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonUpdated(c, "Expense updated", e)
}

// DELETE /expenses/:id
func (h *ContributionController) DeleteExpense(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Ledger.DeleteExpense(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type passkeyRequest struct {
	Passkey string `json:"passkey" validate:"required"`
}

// POST /contributions/verify-passkey
// Second factor in front of the contributions screen. With no passkey
// configured every attempt fails.
func (h *ContributionController) VerifyPasskey(c *fiber.Ctx) error {
	var req passkeyRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if h.Passkey == "" || subtle.ConstantTimeCompare([]byte(req.Passkey), []byte(h.Passkey)) != 1 {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid passkey")
	}
	return helper.JsonOK(c, "OK", fiber.Map{"ok": true})
}
