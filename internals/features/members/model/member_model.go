package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"congregation_backend/internals/constants"
	"congregation_backend/internals/helpers/dbtime"
)

type MemberModel struct {
	MemberID       uuid.UUID      `gorm:"type:uuid;primaryKey;column:member_id" json:"id"`
	MemberFullName string         `gorm:"size:150;not null;column:member_full_name" json:"fullName"`
	MemberEmail    *string        `gorm:"size:255;uniqueIndex;column:member_email" json:"email,omitempty"`
	MemberPhone    *string        `gorm:"size:32;uniqueIndex;column:member_phone" json:"phone,omitempty"`
	MemberRole     constants.Role `gorm:"size:16;not null;default:Member;column:member_role" json:"role"`
	MemberIsActive bool           `gorm:"not null;default:true;index;column:member_is_active" json:"active"`

	// bcrypt hash; nil means the member cannot log in
	MemberPasswordHash *string `gorm:"column:member_password_hash" json:"-"`

	MemberBirthDate dbtime.Date `gorm:"type:date;column:member_birth_date" json:"birthDate"`
	MemberType      *string     `gorm:"size:32;column:member_type" json:"memberType,omitempty"`

	MemberCreatedAt time.Time `gorm:"autoCreateTime;column:member_created_at" json:"createdAt"`
	MemberUpdatedAt time.Time `gorm:"autoUpdateTime;column:member_updated_at" json:"updatedAt"`
}

func (MemberModel) TableName() string { return "members" }

func (m *MemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.MemberID == uuid.Nil {
		m.MemberID = uuid.New()
	}
	if m.MemberRole == "" {
		m.MemberRole = constants.RoleMember
	}
	return nil
}

func (m *MemberModel) HasPassword() bool {
	return m.MemberPasswordHash != nil && *m.MemberPasswordHash != ""
}
