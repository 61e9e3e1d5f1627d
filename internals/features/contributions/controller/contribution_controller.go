package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"congregation_backend/internals/features/contributions/dto"
	"congregation_backend/internals/features/contributions/service"
	helper "congregation_backend/internals/helpers"
	helperAuth "congregation_backend/internals/helpers/auth"
)

type ContributionController struct {
	Ledger  *service.Ledger
	Passkey string
}

func NewContributionController(ledger *service.Ledger, passkey string) *ContributionController {
	return &ContributionController{Ledger: ledger, Passkey: passkey}
}

var validate = validator.New()

func (h *ContributionController) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
	case errors.Is(err, service.ErrExpenseNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Expense not found")
	case errors.Is(err, service.ErrMemberNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Member not found")
	case errors.Is(err, service.ErrEventLocked):
		return helper.JsonErrorCode(c, fiber.StatusConflict, helper.CodeLocked, "Event is locked")
	case errors.Is(err, service.ErrInvalidInput):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "")
	}
}

// GET /contributions
func (h *ContributionController) List(c *fiber.Ctx) error {
	events, err := h.Ledger.ListEvents(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonOK(c, "OK", events)
}

// POST /contributions
func (h *ContributionController) Create(c *fiber.Ctx) error {
	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	ev, err := h.Ledger.CreateEvent(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonCreated(c, "Event created", dto.NewEventSummary(ev, 0, 0))
}

// GET /contributions/:id
func (h *ContributionController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	ev, err := h.Ledger.GetEvent(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonOK(c, "OK", ev)
}

// POST /contributions/:id
// Final submit: writes every contribution and locks the event.
func (h *ContributionController) Submit(c *fiber.Ctx) error {
	caller, err := helperAuth.RequireCaller(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	by := caller.ID
	n, err := h.Ledger.Submit(c.UserContext(), id, &by, req.Contributions)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonCreated(c, "Contributions saved and event locked", fiber.Map{"count": n, "locked": true})
}

// PATCH /contributions/:id
func (h *ContributionController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.PatchEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	ev, err := h.Ledger.PatchEvent(c.UserContext(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonUpdated(c, "Event updated", ev)
}

// DELETE /contributions/:id
func (h *ContributionController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Ledger.DeleteEvent(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return helper.JsonDeleted(c, "Event deleted", fiber.Map{"id": id})
}

// PATCH /contributions/:id/lock
func (h *ContributionController) Lock(c *fiber.Ctx) error {
	caller, err := helperAuth.RequireCaller(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	by := caller.ID
	ev, err := h.Ledger.Lock(c.UserContext(), id, &by)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonUpdated(c, "Event locked", ev)
}

// PUT /contributions/:id/member
func (h *ContributionController) UpsertMember(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.MemberDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	row, err := h.Ledger.UpsertMember(c.UserContext(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonUpdated(c, "Contribution saved", row)
}

// DELETE /contributions/:id/member
func (h *ContributionController) DeleteMember(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.MemberRefRequest
	if err := c.BodyParser(&req); err != nil {
		req.MemberID = c.Query("memberId")
	}
	if req.MemberID == "" {
		req.MemberID = c.Query("memberId")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := h.Ledger.DeleteMember(c.UserContext(), id, req.MemberID); err != nil {
		return h.fail(c, err)
	}
	return helper.JsonDeleted(c, "Contribution removed", nil)
}

// GET /contributions/summary?name=&type=
func (h *ContributionController) Summary(c *fiber.Ctx) error {
	out, err := h.Ledger.Summary(c.UserContext(), c.Query("name"), c.Query("type"))
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonOK(c, "OK", out)
}

// GET /contributions/last-amount?type=
func (h *ContributionController) LastAmount(c *fiber.Ctx) error {
	out, err := h.Ledger.LastAmounts(c.UserContext(), c.Query("type"))
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonOK(c, "OK", out)
}

// GET /members/:id/contributions
func (h *ContributionController) MemberContributions(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	out, err := h.Ledger.MemberContributions(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonOK(c, "OK", out)
}
