package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"congregation_backend/internals/constants"
	"congregation_backend/internals/features/members/dto"
	"congregation_backend/internals/features/members/model"
	"congregation_backend/internals/features/members/service"
	authHelper "congregation_backend/internals/features/users/auth/helper"
	helper "congregation_backend/internals/helpers"
	helperAuth "congregation_backend/internals/helpers/auth"
	"congregation_backend/internals/helpers/dbtime"
)

type MemberController struct {
	DB *gorm.DB
}

func NewMemberController(db *gorm.DB) *MemberController {
	return &MemberController{DB: db}
}

var validate = validator.New()

func (h *MemberController) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Member not found")
	case helper.IsUniqueViolation(err):
		return helper.JsonError(c, fiber.StatusConflict, "Email or phone is already used by another member")
	default:
		return helper.FromFiberError(c, err)
	}
}

// ===================== LIST =====================
// GET /members?q=&page=&per_page=&include_inactive=
func (h *MemberController) List(c *fiber.Ctx) error {
	caller, err := helperAuth.RequireCaller(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 100, 500)
	rows, total, err := service.List(c.UserContext(), h.DB, service.ListFilter{
		Query:           c.Query("q"),
		IncludeInactive: caller.IsAdmin() && c.QueryBool("include_inactive", false),
		Offset:          p.Offset,
		Limit:           p.Limit,
	})
	if err != nil {
		return h.fail(c, err)
	}

	out := make([]dto.MemberResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewMemberResponse(&rows[i]))
	}
	pg := helper.BuildPagination(total, p, len(out))
	return helper.JsonList(c, "OK", out, &pg)
}

// ===================== GET =====================
// GET /members/:id
func (h *MemberController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	return h.detail(c, id)
}

// GET /members/me
func (h *MemberController) Me(c *fiber.Ctx) error {
	caller, err := helperAuth.RequireCaller(c)
	if err != nil {
		return err
	}
	return h.detail(c, caller.ID)
}

func (h *MemberController) detail(c *fiber.Ctx, id uuid.UUID) error {
	m, err := service.FindByID(c.UserContext(), h.DB, id)
	if err != nil {
		return h.fail(c, err)
	}
	history, err := service.AttendanceHistory(c.UserContext(), h.DB, id)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonOK(c, "OK", dto.MemberDetailResponse{
		MemberResponse: dto.NewMemberResponse(m),
		Attendance:     history,
	})
}

// ===================== CREATE =====================
// POST /members
func (h *MemberController) Create(c *fiber.Ctx) error {
	var req dto.CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	role := constants.RoleMember
	if strings.TrimSpace(req.Role) != "" {
		if !constants.IsKnownRole(req.Role) {
			return helper.JsonError(c, fiber.StatusBadRequest, "role must be Admin, Leader or Member")
		}
		role = constants.ParseRole(req.Role)
	}

	m := &model.MemberModel{
		MemberFullName: strings.TrimSpace(req.FullName),
		MemberEmail:    dto.NormalizeContact(req.Email, true),
		MemberPhone:    dto.NormalizeContact(req.Phone, false),
		MemberRole:     role,
		MemberIsActive: true,
		MemberType:     dto.NormalizeContact(req.MemberType, false),
	}
	if req.BirthDate != nil && strings.TrimSpace(*req.BirthDate) != "" {
		d, err := dbtime.ParseDate(*req.BirthDate, nil)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "birthDate must be YYYY-MM-DD")
		}
		m.MemberBirthDate = d
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := authHelper.HashPassword(*req.Password)
		if err != nil {
			log.Printf("[ERROR] hash password: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "")
		}
		m.MemberPasswordHash = &hash
	}

	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return h.fail(c, err)
	}
	return helper.JsonCreated(c, "Member created", dto.NewMemberResponse(m))
}

// ===================== UPDATE =====================
// PUT|PATCH /members/:id (Admin, or the member themselves)
func (h *MemberController) Update(c *fiber.Ctx) error {
	caller, err := helperAuth.RequireCaller(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && caller.ID != id {
		return helper.JsonError(c, fiber.StatusForbidden, "You can only edit your own profile")
	}

	var req dto.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.TouchesAdminFields() && !caller.IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorAdmin("role and status changes"))
	}

	m, err := service.FindByID(c.UserContext(), h.DB, id)
	if err != nil {
		return h.fail(c, err)
	}

	up := map[string]any{}
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return helper.JsonError(c, fiber.StatusBadRequest, "fullName must not be empty")
		}
		up["member_full_name"] = name
	}
	if req.Email != nil {
		email := dto.NormalizeContact(req.Email, true)
		if email != nil && !authHelper.IsValidEmail(*email) {
			return helper.JsonError(c, fiber.StatusBadRequest, "email is not valid")
		}
		up["member_email"] = email
	}
	if req.Phone != nil {
		up["member_phone"] = dto.NormalizeContact(req.Phone, false)
	}
	if req.MemberType != nil {
		up["member_type"] = dto.NormalizeContact(req.MemberType, false)
	}
	if req.BirthDate != nil {
		if strings.TrimSpace(*req.BirthDate) == "" {
			up["member_birth_date"] = nil
		} else {
			d, err := dbtime.ParseDate(*req.BirthDate, nil)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "birthDate must be YYYY-MM-DD")
			}
			up["member_birth_date"] = d
		}
	}
	if req.Role != nil {
		if !constants.IsKnownRole(*req.Role) {
			return helper.JsonError(c, fiber.StatusBadRequest, "role must be Admin, Leader or Member")
		}
		up["member_role"] = constants.ParseRole(*req.Role)
	}
	if req.Active != nil {
		up["member_is_active"] = *req.Active
	}

	if len(up) > 0 {
		if err := h.DB.WithContext(c.UserContext()).Model(m).Updates(up).Error; err != nil {
			return h.fail(c, err)
		}
	}
	m, err = service.FindByID(c.UserContext(), h.DB, id)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonUpdated(c, "Member updated", dto.NewMemberResponse(m))
}

// ===================== DELETE =====================
// DELETE /members/:id (soft: the member is deactivated)
func (h *MemberController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := service.Deactivate(c.UserContext(), h.DB, id); err != nil {
		return h.fail(c, err)
	}
	return helper.JsonDeleted(c, "Member deactivated", fiber.Map{"id": id})
}

// ===================== PASSWORD =====================
// POST /members/set-password (Admin, or the member themselves)
func (h *MemberController) SetPassword(c *fiber.Ctx) error {
	caller, err := helperAuth.RequireCaller(c)
	if err != nil {
		return err
	}
	var req dto.SetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	id := uuid.MustParse(req.MemberID)
	if !caller.IsAdmin() && caller.ID != id {
		return helper.JsonError(c, fiber.StatusForbidden, "You can only change your own password")
	}
	if err := authHelper.ValidatePassword(req.Password); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	hash, err := authHelper.HashPassword(req.Password)
	if err != nil {
		log.Printf("[ERROR] hash password: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "")
	}
	if err := service.SetPasswordHash(c.UserContext(), h.DB, id, hash); err != nil {
		return h.fail(c, err)
	}
	return helper.JsonUpdated(c, "Password updated", fiber.Map{"id": id})
}
