package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"congregation_backend/internals/helpers/dbtime"
)

type ActivityModel struct {
	ActivityID       uuid.UUID   `gorm:"type:uuid;primaryKey;column:activity_id" json:"id"`
	ActivityName     string      `gorm:"size:150;not null;column:activity_name" json:"name"`
	ActivityDate     dbtime.Date `gorm:"type:date;not null;index;column:activity_date" json:"date"`
	ActivityTime     *dbtime.Tod `gorm:"type:time;column:activity_time" json:"time"`
	ActivityLocation *string     `gorm:"size:255;column:activity_location" json:"location,omitempty"`

	ActivityCreatedAt time.Time `gorm:"autoCreateTime;column:activity_created_at" json:"createdAt"`
	ActivityUpdatedAt time.Time `gorm:"autoUpdateTime;column:activity_updated_at" json:"updatedAt"`
}

func (ActivityModel) TableName() string { return "activities" }

func (a *ActivityModel) BeforeCreate(tx *gorm.DB) error {
	if a.ActivityID == uuid.Nil {
		a.ActivityID = uuid.New()
	}
	return nil
}
