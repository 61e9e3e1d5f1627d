package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TypeRegistrationRequest = "registration_request"
	TypeBirthday            = "birthday"
)

// NotificationModel is one entry of the admin inbox. DedupeKey is set for
// generated entries so a rerun does not post them twice.
type NotificationModel struct {
	NotificationID        uuid.UUID      `gorm:"type:uuid;primaryKey;column:notification_id" json:"id"`
	NotificationType      string         `gorm:"size:32;not null;index;column:notification_type" json:"type"`
	NotificationDedupeKey *string        `gorm:"size:128;uniqueIndex;column:notification_dedupe_key" json:"-"`
	NotificationPayload   datatypes.JSON `gorm:"column:notification_payload" json:"payload"`
	NotificationCreatedAt time.Time      `gorm:"not null;index;column:notification_created_at" json:"createdAt"`
}

func (NotificationModel) TableName() string { return "admin_notifications" }

func (n *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
