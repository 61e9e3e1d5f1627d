package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementModel struct {
	AnnouncementID        uuid.UUID `gorm:"type:uuid;primaryKey;column:announcement_id" json:"id"`
	AnnouncementAuthor    string    `gorm:"size:150;not null;default:'';column:announcement_author" json:"author"`
	AnnouncementContent   string    `gorm:"type:text;not null;column:announcement_content" json:"content"`
	AnnouncementImageURL  *string   `gorm:"column:announcement_image_url" json:"imageUrl,omitempty"`
	AnnouncementCreatedAt time.Time `gorm:"autoCreateTime;index;column:announcement_created_at" json:"createdAt"`
	AnnouncementUpdatedAt time.Time `gorm:"autoUpdateTime;column:announcement_updated_at" json:"updatedAt"`
}

func (AnnouncementModel) TableName() string { return "announcements" }

func (a *AnnouncementModel) BeforeCreate(tx *gorm.DB) error {
	if a.AnnouncementID == uuid.Nil {
		a.AnnouncementID = uuid.New()
	}
	return nil
}
