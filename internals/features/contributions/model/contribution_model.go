package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"congregation_backend/internals/helpers/dbtime"
)

const (
	EventTypeMonthly = "MONTHLY"
	EventTypeSpecial = "SPECIAL"

	// bookkeeping event hidden from member histories
	InternalUsageEvent = "_internal_usage"
)

// ContributionEventModel is one collection round. EventLocked mirrors the
// write-once seal so listings don't need a join.
type ContributionEventModel struct {
	EventID            uuid.UUID   `gorm:"type:uuid;primaryKey;column:event_id" json:"id"`
	EventName          string      `gorm:"size:150;not null;index;column:event_name" json:"name"`
	EventDate          dbtime.Date `gorm:"type:date;not null;column:event_date" json:"date"`
	EventType          string      `gorm:"size:32;not null;default:MONTHLY;index;column:event_type" json:"type"`
	EventLocked        bool        `gorm:"not null;default:false;column:event_locked" json:"locked"`
	EventExpectedTotal int64       `gorm:"not null;default:0;column:event_expected_total" json:"expectedTotal"`
	EventAmountSpent   int64       `gorm:"not null;default:0;column:event_amount_spent" json:"amountSpent"`
	EventCreatedAt     time.Time   `gorm:"autoCreateTime;column:event_created_at" json:"createdAt"`
	EventUpdatedAt     time.Time   `gorm:"autoUpdateTime;column:event_updated_at" json:"updatedAt"`
}

func (ContributionEventModel) TableName() string { return "contribution_events" }

func (e *ContributionEventModel) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}

type ContributionModel struct {
	ContributionID        uuid.UUID `gorm:"type:uuid;primaryKey;column:contribution_id" json:"id"`
	ContributionEventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_contribution_event_member,priority:1;column:contribution_event_id" json:"eventId"`
	ContributionMemberID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_contribution_event_member,priority:2;index;column:contribution_member_id" json:"memberId"`
	ContributionAmount    int64     `gorm:"not null;default:0;column:contribution_amount" json:"amount"`
	ContributionNote      *string   `gorm:"column:contribution_note" json:"note,omitempty"`
	ContributionCreatedAt time.Time `gorm:"autoCreateTime;column:contribution_created_at" json:"createdAt"`
	ContributionUpdatedAt time.Time `gorm:"autoUpdateTime;column:contribution_updated_at" json:"updatedAt"`
}

func (ContributionModel) TableName() string { return "contributions" }

func (c *ContributionModel) BeforeCreate(tx *gorm.DB) error {
	if c.ContributionID == uuid.Nil {
		c.ContributionID = uuid.New()
	}
	return nil
}
