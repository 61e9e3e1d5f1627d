package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceModel "congregation_backend/internals/features/activities/attendance/model"
	"congregation_backend/internals/features/members/dto"
	"congregation_backend/internals/features/members/model"
	"congregation_backend/internals/helpers/dbtime"
)

var ErrMemberNotFound = errors.New("member not found")

func FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.MemberModel, error) {
	var m model.MemberModel
	err := db.WithContext(ctx).Where("member_id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type ListFilter struct {
	Query           string
	IncludeInactive bool
	Offset, Limit   int
}

// List returns members ordered by name. Inactive members are hidden unless
// asked for.
func List(ctx context.Context, db *gorm.DB, f ListFilter) ([]model.MemberModel, int64, error) {
	q := db.WithContext(ctx).Model(&model.MemberModel{})
	if !f.IncludeInactive {
		q = q.Where("member_is_active = ?", true)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(member_full_name) LIKE ? OR LOWER(member_email) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.MemberModel
	if err := q.Order("member_full_name ASC").Offset(f.Offset).Limit(f.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// AttendanceHistory lists every attendance row of memberID across all
// activities, newest activity first. Stored statuses are read leniently.
func AttendanceHistory(ctx context.Context, db *gorm.DB, memberID uuid.UUID) ([]dto.AttendanceHistoryItem, error) {
	type row struct {
		ActivityID        uuid.UUID
		ActivityName      string
		ActivityDate      dbtime.Date
		ActivityTime      *dbtime.Tod
		AttendanceStatus  attendanceModel.AttendanceStatus
		AttendanceTakenAt time.Time
	}
	var rows []row
	err := db.WithContext(ctx).
		Table("attendances AS a").
		Select("act.activity_id, act.activity_name, act.activity_date, act.activity_time, a.attendance_status, a.attendance_taken_at").
		Joins("JOIN activities AS act ON act.activity_id = a.attendance_activity_id").
		Where("a.attendance_member_id = ?", memberID).
		Order("act.activity_date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.AttendanceHistoryItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.AttendanceHistoryItem{
			ActivityID:   r.ActivityID,
			ActivityName: r.ActivityName,
			Date:         r.ActivityDate,
			Time:         r.ActivityTime,
			Status:       r.AttendanceStatus,
			TakenAt:      r.AttendanceTakenAt,
		})
	}
	return out, nil
}

// Deactivate is the soft delete: attendance and contribution history stay.
func Deactivate(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	res := db.WithContext(ctx).Model(&model.MemberModel{}).
		Where("member_id = ?", id).
		Update("member_is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func SetPasswordHash(ctx context.Context, db *gorm.DB, id uuid.UUID, hash string) error {
	res := db.WithContext(ctx).Model(&model.MemberModel{}).
		Where("member_id = ?", id).
		Update("member_password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}
