package repository

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "congregation_backend/internals/features/users/auth/model"
	memberModel "congregation_backend/internals/features/members/model"
)

// FindMemberByIdentifier matches email (case-insensitive) or phone.
func FindMemberByIdentifier(db *gorm.DB, identifier string) (*memberModel.MemberModel, error) {
	identifier = strings.TrimSpace(identifier)
	var m memberModel.MemberModel
	if err := db.
		Where("LOWER(member_email) = LOWER(?) OR member_phone = ?", identifier, identifier).
		Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func FindMemberByPhone(db *gorm.DB, phone string) (*memberModel.MemberModel, error) {
	var m memberModel.MemberModel
	if err := db.Where("member_phone = ?", strings.TrimSpace(phone)).Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ClaimLogin sets the first password of a member. It affects no row when the
// member already has one, so two concurrent claims cannot both win.
func ClaimLogin(db *gorm.DB, id uuid.UUID, up map[string]any) (bool, error) {
	res := db.Model(&memberModel.MemberModel{}).
		Where("member_id = ? AND (member_password_hash IS NULL OR member_password_hash = '')", id).
		Updates(up)
	return res.RowsAffected == 1, res.Error
}

func FindMemberByID(db *gorm.DB, id uuid.UUID) (*memberModel.MemberModel, error) {
	var m memberModel.MemberModel
	if err := db.Where("member_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

/* ====================== BLACKLIST TOKEN ====================== */

// TokenDigest is what the blacklist stores instead of the raw token.
func TokenDigest(raw, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(raw))
	return hex.EncodeToString(m.Sum(nil))
}

// BlacklistToken is idempotent on the token digest.
func BlacklistToken(db *gorm.DB, raw, secret string, expiredAt time.Time) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&authModel.TokenBlacklist{
		BlacklistDigest:    TokenDigest(raw, secret),
		BlacklistExpiredAt: expiredAt.UTC(),
	}).Error
}

func IsBlacklisted(db *gorm.DB, raw, secret string) (bool, error) {
	var existing authModel.TokenBlacklist
	err := db.Where("blacklist_digest = ?", TokenDigest(raw, secret)).Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CleanupExpiredBlacklist hard-deletes entries that expired before cutoff.
func CleanupExpiredBlacklist(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Unscoped().
		Where("blacklist_expired_at < ?", cutoff.UTC()).
		Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
