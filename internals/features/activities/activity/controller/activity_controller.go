package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"congregation_backend/internals/constants"
	"congregation_backend/internals/features/activities/activity/dto"
	"congregation_backend/internals/features/activities/activity/model"
	assignmentModel "congregation_backend/internals/features/activities/assignment/model"
	assignmentRepo "congregation_backend/internals/features/activities/assignment/repository"
	attendanceModel "congregation_backend/internals/features/activities/attendance/model"
	attendanceService "congregation_backend/internals/features/activities/attendance/service"
	memberModel "congregation_backend/internals/features/members/model"
	helper "congregation_backend/internals/helpers"
	helperAuth "congregation_backend/internals/helpers/auth"
	"congregation_backend/internals/helpers/dbtime"
)

type ActivityController struct {
	DB     *gorm.DB
	Ledger *attendanceService.Ledger
}

func NewActivityController(db *gorm.DB, ledger *attendanceService.Ledger) *ActivityController {
	return &ActivityController{DB: db, Ledger: ledger}
}

var validate = validator.New()

func (h *ActivityController) loc() *time.Location { return h.Ledger.Loc }

func (h *ActivityController) findActivity(c *fiber.Ctx, id uuid.UUID) (*model.ActivityModel, error) {
	var m model.ActivityModel
	if err := h.DB.WithContext(c.UserContext()).Where("activity_id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Activity not found")
		}
		return nil, err
	}
	return &m, nil
}

// sameWeekDuplicate reports whether another activity with the same name is
// scheduled in the Sunday-based week of d.
func sameWeekDuplicate(db *gorm.DB, name string, d dbtime.Date, exclude uuid.UUID) (bool, error) {
	start := d.WeekStart()
	end := start.AddDays(6)
	var n int64
	q := db.Model(&model.ActivityModel{}).
		Where("LOWER(activity_name) = LOWER(?)", strings.TrimSpace(name)).
		Where("activity_date BETWEEN ? AND ?", start, end)
	if exclude != uuid.Nil {
		q = q.Where("activity_id <> ?", exclude)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

// ===================== LIST =====================
// GET /activities?page=&per_page=
func (h *ActivityController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 50, 200)

	q := h.DB.WithContext(c.UserContext()).Model(&model.ActivityModel{})
	if from := strings.TrimSpace(c.Query("from")); from != "" {
		d, err := dbtime.ParseDate(from, h.loc())
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		q = q.Where("activity_date >= ?", d)
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		d, err := dbtime.ParseDate(to, h.loc())
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		q = q.Where("activity_date <= ?", d)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	var rows []model.ActivityModel
	if err := q.Order("activity_date DESC, activity_time DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ActivityID)
	}
	leaders, err := assignmentRepo.FindByActivities(c.UserContext(), h.DB, ids)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	out := make([]dto.ActivityResponse, 0, len(rows))
	for i := range rows {
		var leader *uuid.UUID
		if id, ok := leaders[rows[i].ActivityID]; ok {
			leader = &id
		}
		out = append(out, dto.NewActivityResponse(&rows[i], leader))
	}
	pg := helper.BuildPagination(total, p, len(out))
	return helper.JsonList(c, "OK", out, &pg)
}

// ===================== GET =====================
// GET /activities/:id
func (h *ActivityController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	act, err := h.findActivity(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	asg, err := assignmentRepo.FindByActivity(c.UserContext(), h.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "OK", dto.NewActivityResponse(act, leaderOf(asg)))
}

// ===================== CREATE =====================
// POST /activities
func (h *ActivityController) Create(c *fiber.Ctx) error {
	var req dto.CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	m, err := req.ToModel(h.loc())
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	dup, err := sameWeekDuplicate(h.DB.WithContext(c.UserContext()), m.ActivityName, m.ActivityDate, uuid.Nil)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if dup {
		return helper.JsonError(c, fiber.StatusConflict, "An activity with this name already exists in the same week")
	}

	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Activity created", dto.NewActivityResponse(m, nil))
}

// ===================== UPDATE =====================
// PUT /activities/:id
func (h *ActivityController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var act model.ActivityModel
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("activity_id = ?", id).Take(&act).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Activity not found")
			}
			return err
		}
		before := act

		changes, err := req.Apply(&act, h.loc())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if act.ActivityName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name must not be empty")
		}
		if len(changes) == 0 {
			return nil
		}
		if scheduleMoved(&before, &act) {
			if err := h.scheduleFrozen(tx, &before); err != nil {
				return err
			}
		}
		if req.Name != nil || req.Date != nil {
			dup, err := sameWeekDuplicate(tx, act.ActivityName, act.ActivityDate, act.ActivityID)
			if err != nil {
				return err
			}
			if dup {
				return fiber.NewError(fiber.StatusConflict, "An activity with this name already exists in the same week")
			}
		}
		return tx.Model(&act).Updates(changes).Error
	})
	if errors.Is(err, errScheduleFrozen) {
		return helper.JsonErrorCode(c, fiber.StatusConflict, helper.CodeLocked, err.Error())
	}
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	asg, err := assignmentRepo.FindByActivity(c.UserContext(), h.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Activity updated", dto.NewActivityResponse(&act, leaderOf(asg)))
}

var errScheduleFrozen = errors.New("the schedule cannot change once attendance is saved or the attendance window has locked")

func scheduleMoved(before, after *model.ActivityModel) bool {
	if before.ActivityDate != after.ActivityDate {
		return true
	}
	if (before.ActivityTime == nil) != (after.ActivityTime == nil) {
		return true
	}
	return before.ActivityTime != nil && before.ActivityTime.String() != after.ActivityTime.String()
}

// scheduleFrozen refuses to move an activity whose roster is sealed or whose
// window has already locked; moving it could reopen the window.
func (h *ActivityController) scheduleFrozen(tx *gorm.DB, act *model.ActivityModel) error {
	sealed, err := h.Ledger.Seals().Sealed(tx, act.ActivityID)
	if err != nil {
		return err
	}
	if sealed {
		return errScheduleFrozen
	}
	var rows int64
	if err := tx.Model(&attendanceModel.AttendanceModel{}).
		Where("attendance_activity_id = ?", act.ActivityID).Count(&rows).Error; err != nil {
		return err
	}
	if rows > 0 {
		return errScheduleFrozen
	}
	schedule := attendanceService.Schedule{Date: act.ActivityDate, Time: act.ActivityTime}
	if attendanceService.Evaluate(schedule, h.Ledger.Clock(), h.loc()).State == attendanceService.StateLocked {
		return errScheduleFrozen
	}
	return nil
}

// ===================== DELETE =====================
// DELETE /activities/:id
// Attendance, assignment and the first-save marker go with the activity.
func (h *ActivityController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("activity_id = ?", id).Delete(&model.ActivityModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Activity not found")
		}
		if err := tx.Where("attendance_activity_id = ?", id).Delete(&attendanceModel.AttendanceModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assignment_activity_id = ?", id).Delete(&assignmentModel.ActivityAssignmentModel{}).Error; err != nil {
			return err
		}
		return h.Ledger.Seals().Forget(tx, id)
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Activity deleted", fiber.Map{"id": id})
}

// ===================== ASSIGNMENT =====================
// GET /activities/:id/assign
func (h *ActivityController) GetAssignment(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.findActivity(c, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	asg, err := assignmentRepo.FindByActivity(c.UserContext(), h.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "OK", dto.AssignmentResponse{AssignedLeaderID: leaderOf(asg)})
}

// PUT /activities/:id/assign
func (h *ActivityController) Assign(c *fiber.Ctx) error {
	caller, err := helperAuth.RequireCaller(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	act, err := h.findActivity(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if req.AttendanceBy == nil || strings.TrimSpace(*req.AttendanceBy) == "" {
		if err := assignmentRepo.Clear(c.UserContext(), h.DB, id); err != nil {
			return helper.FromFiberError(c, err)
		}
		return helper.JsonUpdated(c, "Assignment cleared", dto.NewActivityResponse(act, nil))
	}

	leaderID, err := uuid.Parse(strings.TrimSpace(*req.AttendanceBy))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "attendanceBy must be a member id")
	}
	var leader memberModel.MemberModel
	if err := h.DB.WithContext(c.UserContext()).Where("member_id = ?", leaderID).Take(&leader).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Assigned member not found")
		}
		return helper.FromFiberError(c, err)
	}
	if !leader.MemberIsActive {
		return helper.JsonError(c, fiber.StatusBadRequest, "Assigned member is not active")
	}
	if constants.ParseRole(leader.MemberRole) != constants.RoleLeader {
		return helper.JsonError(c, fiber.StatusBadRequest, "Assigned member must have the Leader role")
	}

	by := caller.ID
	asg, err := assignmentRepo.Upsert(c.UserContext(), h.DB, id, leaderID, &by, h.Ledger.Clock())
	if err != nil {
		log.Printf("[ERROR] assign activity=%s leader=%s: %v", id, leaderID, err)
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Leader assigned", dto.NewActivityResponse(act, leaderOf(asg)))
}

func leaderOf(a *assignmentModel.ActivityAssignmentModel) *uuid.UUID {
	if a == nil {
		return nil
	}
	id := a.AssignmentLeaderID
	return &id
}
