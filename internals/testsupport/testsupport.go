// Package testsupport opens a migrated in-memory database and builds the
// fixtures feature tests share.
package testsupport

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"congregation_backend/internals/configs"
	"congregation_backend/internals/constants"
	database "congregation_backend/internals/databases"
	activityModel "congregation_backend/internals/features/activities/activity/model"
	assignmentModel "congregation_backend/internals/features/activities/assignment/model"
	memberModel "congregation_backend/internals/features/members/model"
	authHelper "congregation_backend/internals/features/users/auth/helper"
	authService "congregation_backend/internals/features/users/auth/service"
	"congregation_backend/internals/helpers/dbtime"
)

const JWTSecret = "test-secret"

// OpenDB returns a fresh in-memory database with every table migrated. A
// single connection keeps the memory database alive and serializes writers
// the way row locks would on Postgres.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	configs.JWTSecret = JWTSecret
	return db
}

// Config is a test configuration with uploads under a temp dir.
func Config(t testing.TB) *configs.Config {
	t.Helper()
	return &configs.Config{
		Port:                  "0",
		JWTSecret:             JWTSecret,
		TokenTTL:              time.Hour,
		Timezone:              "UTC",
		UploadDir:             t.TempDir(),
		GalleryMaxWidth:       64,
		TokenBlacklistTTLDays: 7,
	}
}

func CreateMember(t testing.TB, db *gorm.DB, name string, role constants.Role) *memberModel.MemberModel {
	t.Helper()
	m := &memberModel.MemberModel{
		MemberFullName: name,
		MemberRole:     role,
		MemberIsActive: true,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("create member %s: %v", name, err)
	}
	return m
}

// CreateMemberWithLogin also sets email and password.
func CreateMemberWithLogin(t testing.TB, db *gorm.DB, name, email, password string, role constants.Role) *memberModel.MemberModel {
	t.Helper()
	hash, err := authHelper.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	m := &memberModel.MemberModel{
		MemberFullName:     name,
		MemberEmail:        &email,
		MemberRole:         role,
		MemberIsActive:     true,
		MemberPasswordHash: &hash,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("create member %s: %v", name, err)
	}
	return m
}

// CreateActivity stores an activity on date ("YYYY-MM-DD") at tod ("HH:MM",
// or "" for none).
func CreateActivity(t testing.TB, db *gorm.DB, name, date, tod string) *activityModel.ActivityModel {
	t.Helper()
	d, err := dbtime.ParseDate(date, nil)
	if err != nil {
		t.Fatalf("parse date %q: %v", date, err)
	}
	a := &activityModel.ActivityModel{ActivityName: name, ActivityDate: d}
	if tod != "" {
		tt, err := dbtime.ParseTod(tod)
		if err != nil {
			t.Fatalf("parse time %q: %v", tod, err)
		}
		a.ActivityTime = &tt
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("create activity %s: %v", name, err)
	}
	return a
}

func Assign(t testing.TB, db *gorm.DB, activityID, leaderID uuid.UUID) {
	t.Helper()
	row := &assignmentModel.ActivityAssignmentModel{
		AssignmentActivityID: activityID,
		AssignmentLeaderID:   leaderID,
		AssignmentAssignedAt: time.Now(),
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("assign leader: %v", err)
	}
}

// Token signs a session token for m valid for an hour from now.
func Token(t testing.TB, m *memberModel.MemberModel) string {
	t.Helper()
	tok, _, err := authService.SignAccessToken(JWTSecret, m.MemberID, m.MemberRole, m.MemberFullName, time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// At builds a wall-clock instant in loc.
func At(loc *time.Location, year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}
