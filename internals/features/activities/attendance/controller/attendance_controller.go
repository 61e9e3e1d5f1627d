package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"congregation_backend/internals/features/activities/attendance/dto"
	"congregation_backend/internals/features/activities/attendance/service"
	helper "congregation_backend/internals/helpers"
	helperAuth "congregation_backend/internals/helpers/auth"
)

type AttendanceController struct {
	Ledger *service.Ledger
}

func NewAttendanceController(ledger *service.Ledger) *AttendanceController {
	return &AttendanceController{Ledger: ledger}
}

// ===================== READ =====================
// GET /activities/:id/attendance
func (h *AttendanceController) List(c *fiber.Ctx) error {
	activityID, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	res, err := h.Ledger.Read(c.UserContext(), activityID)
	if err != nil {
		return h.fail(c, activityID, err)
	}
	return c.JSON(dto.AttendanceListResponse{
		Attendance: dto.NewAttendanceRecordResponses(res.Records),
		Saved:      res.Saved,
	})
}

// ===================== FIRST SAVE =====================
// POST /activities/:id/attendance
func (h *AttendanceController) FirstSave(c *fiber.Ctx) error {
	activityID, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.SaveAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, helper.CodeInvalidInput, "Invalid request body")
	}

	caller := helperAuth.GetCaller(c)
	if caller == nil {
		return helper.JsonErrorCode(c, fiber.StatusUnauthorized, helper.CodeUnauthenticated, "Sign in to record attendance")
	}
	n, err := h.Ledger.FirstSave(c.UserContext(), activityID, caller, req.Attendees)
	if err != nil {
		return h.fail(c, activityID, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FirstSaveResponse{Count: n, Saved: true})
}

// ===================== UPDATE =====================
// PUT /activities/:id/attendance
func (h *AttendanceController) Update(c *fiber.Ctx) error {
	activityID, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.SaveAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, helper.CodeInvalidInput, "Invalid request body")
	}

	caller := helperAuth.GetCaller(c)
	if caller == nil {
		return helper.JsonErrorCode(c, fiber.StatusUnauthorized, helper.CodeUnauthenticated, "Sign in to record attendance")
	}
	n, err := h.Ledger.Update(c.UserContext(), activityID, caller, req.Attendees)
	if err != nil {
		return h.fail(c, activityID, err)
	}
	return c.JSON(dto.UpdateResponse{Updated: true, Count: n})
}

// ===================== WINDOW =====================
// GET /activities/:id/attendance/window
func (h *AttendanceController) Window(c *fiber.Ctx) error {
	activityID, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	w, err := h.Ledger.Window(c.UserContext(), activityID, helperAuth.GetCaller(c))
	if err != nil {
		return h.fail(c, activityID, err)
	}
	return c.JSON(dto.WindowResponse{
		State:    string(w.Evaluation.State),
		Reason:   w.Evaluation.Reason,
		OpensAt:  w.Evaluation.OpensAt,
		LocksAt:  w.Evaluation.LocksAt,
		CanWrite: w.CanWrite,
		Saved:    w.Saved,
	})
}

func (h *AttendanceController) fail(c *fiber.Ctx, activityID uuid.UUID, err error) error {
	var locked *service.LockedError
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, helper.CodeNotFound, "Activity not found")
	case errors.Is(err, service.ErrForbidden):
		return helper.JsonErrorCode(c, fiber.StatusForbidden, helper.CodeForbidden, err.Error())
	case errors.As(err, &locked):
		return helper.JsonErrorCode(c, fiber.StatusForbidden, helper.CodeLocked, locked.Error())
	case errors.Is(err, service.ErrAlreadySaved):
		return helper.JsonErrorCode(c, fiber.StatusConflict, helper.CodeAlreadySaved, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, helper.CodeInvalidInput, err.Error())
	default:
		log.Printf("[ERROR] attendance activity=%s: %v", activityID, err)
		return helper.JsonErrorCode(c, fiber.StatusInternalServerError, helper.CodeStorageFailure, "internal server error")
	}
}
