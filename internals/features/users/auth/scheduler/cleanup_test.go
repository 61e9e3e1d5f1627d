package scheduler

import (
	"testing"
	"time"

	authModel "congregation_backend/internals/features/users/auth/model"
	"congregation_backend/internals/features/users/auth/repository"
	"congregation_backend/internals/testsupport"
)

func TestRunBlacklistCleanupRemovesOldEntries(t *testing.T) {
	db := testsupport.OpenDB(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	if err := repository.BlacklistToken(db, "old", "s", now.AddDate(0, 0, -30)); err != nil {
		t.Fatalf("seed old: %v", err)
	}
	if err := repository.BlacklistToken(db, "fresh", "s", now.AddDate(0, 0, 2)); err != nil {
		t.Fatalf("seed fresh: %v", err)
	}

	if n := RunBlacklistCleanup(db, now, 7); n != 1 {
		t.Fatalf("removed = %d, want 1", n)
	}
	var left int64
	db.Unscoped().Model(&authModel.TokenBlacklist{}).Count(&left)
	if left != 1 {
		t.Fatalf("remaining = %d, want 1", left)
	}
	if black, _ := repository.IsBlacklisted(db, "fresh", "s"); !black {
		t.Fatal("fresh token was purged")
	}
}
