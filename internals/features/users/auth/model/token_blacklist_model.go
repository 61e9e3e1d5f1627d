package model

import (
	"time"

	"gorm.io/gorm"
)

// TokenBlacklist holds revoked sessions by digest; the raw token is never stored.
type TokenBlacklist struct {
	BlacklistID        uint           `gorm:"primaryKey;column:blacklist_id" json:"id"`
	BlacklistDigest    string         `gorm:"size:64;not null;uniqueIndex;column:blacklist_digest" json:"-"`
	BlacklistExpiredAt time.Time      `gorm:"not null;index;column:blacklist_expired_at" json:"expiredAt"`
	BlacklistCreatedAt time.Time      `gorm:"autoCreateTime;column:blacklist_created_at" json:"createdAt"`
	BlacklistDeletedAt gorm.DeletedAt `gorm:"index;column:blacklist_deleted_at" json:"-"`
}

func (TokenBlacklist) TableName() string { return "token_blacklist" }
