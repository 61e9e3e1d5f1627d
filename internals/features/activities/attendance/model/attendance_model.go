package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusAbsent  AttendanceStatus = "ABSENT"
	StatusExcused AttendanceStatus = "EXCUSED"
)

// ParseStatus is the strict decode used for request bodies.
func ParseStatus(s string) (AttendanceStatus, error) {
	switch AttendanceStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPresent:
		return StatusPresent, nil
	case StatusAbsent:
		return StatusAbsent, nil
	case StatusExcused:
		return StatusExcused, nil
	}
	return "", fmt.Errorf("status %q must be PRESENT, ABSENT or EXCUSED", s)
}

// DecodeStatus is the lenient decode for stored rows: a leading "p" is
// present, a leading "e" is excused, anything else is absent.
func DecodeStatus(s string) AttendanceStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "p"):
		return StatusPresent
	case strings.HasPrefix(s, "e"):
		return StatusExcused
	default:
		return StatusAbsent
	}
}

func (s *AttendanceStatus) Scan(v any) error {
	switch x := v.(type) {
	case string:
		*s = DecodeStatus(x)
	case []byte:
		*s = DecodeStatus(string(x))
	case nil:
		*s = StatusAbsent
	default:
		return fmt.Errorf("attendance status: unsupported Scan type %T", v)
	}
	return nil
}

func (s AttendanceStatus) Value() (driver.Value, error) {
	return string(s), nil
}

type AttendanceModel struct {
	AttendanceID         uuid.UUID        `gorm:"type:uuid;primaryKey;column:attendance_id" json:"id"`
	AttendanceActivityID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_activity_member,priority:1;column:attendance_activity_id" json:"activityId"`
	AttendanceMemberID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_activity_member,priority:2;index;column:attendance_member_id" json:"memberId"`
	AttendanceStatus     AttendanceStatus `gorm:"size:16;not null;column:attendance_status" json:"status"`
	AttendanceTakenAt    time.Time        `gorm:"not null;column:attendance_taken_at" json:"takenAt"`
}

func (AttendanceModel) TableName() string { return "attendances" }

func (a *AttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if a.AttendanceID == uuid.Nil {
		a.AttendanceID = uuid.New()
	}
	return nil
}
