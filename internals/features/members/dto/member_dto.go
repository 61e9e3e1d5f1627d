package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"congregation_backend/internals/constants"
	attendanceModel "congregation_backend/internals/features/activities/attendance/model"
	"congregation_backend/internals/features/members/model"
	"congregation_backend/internals/helpers/dbtime"
)

type CreateMemberRequest struct {
	FullName   string  `json:"fullName" validate:"required,max=150"`
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Phone      *string `json:"phone" validate:"omitempty,max=32"`
	Role       string  `json:"role" validate:"omitempty"`
	BirthDate  *string `json:"birthDate"`
	MemberType *string `json:"memberType" validate:"omitempty,max=32"`
	Password   *string `json:"password" validate:"omitempty,min=8"`
}

// UpdateMemberRequest is a partial update; Role and Active are Admin-only.
type UpdateMemberRequest struct {
	FullName   *string `json:"fullName" validate:"omitempty,max=150"`
	Email      *string `json:"email" validate:"omitempty,max=255"`
	Phone      *string `json:"phone" validate:"omitempty,max=32"`
	Role       *string `json:"role"`
	Active     *bool   `json:"active"`
	BirthDate  *string `json:"birthDate"`
	MemberType *string `json:"memberType" validate:"omitempty,max=32"`
}

func (r UpdateMemberRequest) TouchesAdminFields() bool {
	return r.Role != nil || r.Active != nil
}

type SetPasswordRequest struct {
	MemberID string `json:"memberId" validate:"required,uuid"`
	Password string `json:"password" validate:"required,min=8"`
}

type MemberResponse struct {
	ID         uuid.UUID      `json:"id"`
	FullName   string         `json:"fullName"`
	Email      *string        `json:"email,omitempty"`
	Phone      *string        `json:"phone,omitempty"`
	Role       constants.Role `json:"role"`
	Active     bool           `json:"active"`
	BirthDate  dbtime.Date    `json:"birthDate"`
	MemberType *string        `json:"memberType,omitempty"`
	HasLogin   bool           `json:"hasLogin"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func NewMemberResponse(m *model.MemberModel) MemberResponse {
	return MemberResponse{
		ID:         m.MemberID,
		FullName:   m.MemberFullName,
		Email:      m.MemberEmail,
		Phone:      m.MemberPhone,
		Role:       constants.ParseRole(m.MemberRole),
		Active:     m.MemberIsActive,
		BirthDate:  m.MemberBirthDate,
		MemberType: m.MemberType,
		HasLogin:   m.HasPassword(),
		CreatedAt:  m.MemberCreatedAt,
	}
}

type AttendanceHistoryItem struct {
	ActivityID   uuid.UUID                        `json:"activityId"`
	ActivityName string                           `json:"activityName"`
	Date         dbtime.Date                      `json:"date"`
	Time         *dbtime.Tod                      `json:"time"`
	Status       attendanceModel.AttendanceStatus `json:"status"`
	TakenAt      time.Time                        `json:"takenAt"`
}

type MemberDetailResponse struct {
	MemberResponse
	Attendance []AttendanceHistoryItem `json:"attendance"`
}

// NormalizeContact trims a contact field; empty becomes nil so the unique
// index ignores it.
func NormalizeContact(s *string, lower bool) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	if lower {
		v = strings.ToLower(v)
	}
	return &v
}
