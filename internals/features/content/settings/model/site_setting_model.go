package model

import (
	"time"

	"gorm.io/datatypes"
)

const KeyLanding = "landing"

type SiteSettingModel struct {
	SettingKey       string         `gorm:"size:64;primaryKey;column:setting_key" json:"key"`
	SettingValue     datatypes.JSON `gorm:"column:setting_value" json:"value"`
	SettingUpdatedAt time.Time      `gorm:"autoUpdateTime;column:setting_updated_at" json:"updatedAt"`
}

func (SiteSettingModel) TableName() string { return "site_settings" }
