package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"congregation_backend/internals/helpers/dbtime"
)

// ExpenseModel is money spent out of an event's collection. The event's
// EventAmountSpent is the running sum of its expenses.
type ExpenseModel struct {
	ExpenseID        uuid.UUID   `gorm:"type:uuid;primaryKey;column:expense_id" json:"id"`
	ExpenseEventID   uuid.UUID   `gorm:"type:uuid;not null;index;column:expense_event_id" json:"eventId"`
	ExpenseAmount    int64       `gorm:"not null;column:expense_amount" json:"amount"`
	ExpenseReason    *string     `gorm:"size:500;column:expense_reason" json:"reason,omitempty"`
	ExpenseDate      dbtime.Date `gorm:"type:date;not null;column:expense_date" json:"date"`
	ExpenseCreatedAt time.Time   `gorm:"autoCreateTime;index;column:expense_created_at" json:"createdAt"`
	ExpenseUpdatedAt time.Time   `gorm:"autoUpdateTime;column:expense_updated_at" json:"updatedAt"`
}

func (ExpenseModel) TableName() string { return "expenses" }

func (e *ExpenseModel) BeforeCreate(tx *gorm.DB) error {
	if e.ExpenseID == uuid.Nil {
		e.ExpenseID = uuid.New()
	}
	return nil
}
