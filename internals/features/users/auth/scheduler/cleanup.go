package scheduler

import (
	"context"
	"log"
	"time"

	authRepo "congregation_backend/internals/features/users/auth/repository"

	"gorm.io/gorm"
)

// StartBlacklistCleanupScheduler purges blacklist entries older than ttlDays
// once a day until ctx is done.
func StartBlacklistCleanupScheduler(ctx context.Context, db *gorm.DB, ttlDays int) {
	if ttlDays <= 0 {
		ttlDays = 7
	}
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			RunBlacklistCleanup(db, time.Now(), ttlDays)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func RunBlacklistCleanup(db *gorm.DB, now time.Time, ttlDays int) int64 {
	cutoff := now.Add(-time.Duration(ttlDays) * 24 * time.Hour)
	n, err := authRepo.CleanupExpiredBlacklist(db, cutoff)
	if err != nil {
		log.Printf("[CLEANUP ERROR] token_blacklist: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("[CLEANUP] %d expired tokens removed", n)
	}
	return n
}
