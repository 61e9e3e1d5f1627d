package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	KindImage = "image"
	KindVideo = "video"
)

type GalleryItemModel struct {
	GalleryItemID        uuid.UUID `gorm:"type:uuid;primaryKey;column:gallery_item_id" json:"id"`
	GalleryItemKind      string    `gorm:"size:16;not null;default:image;column:gallery_item_kind" json:"type"`
	GalleryItemURL       string    `gorm:"type:text;not null;column:gallery_item_url" json:"url"`
	GalleryItemCaption   string    `gorm:"size:255;not null;default:'';column:gallery_item_caption" json:"caption"`
	GalleryItemCreatedAt time.Time `gorm:"autoCreateTime;index;column:gallery_item_created_at" json:"createdAt"`
}

func (GalleryItemModel) TableName() string { return "gallery_items" }

func (g *GalleryItemModel) BeforeCreate(tx *gorm.DB) error {
	if g.GalleryItemID == uuid.Nil {
		g.GalleryItemID = uuid.New()
	}
	return nil
}
