package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"congregation_backend/internals/configs"
	activityModel "congregation_backend/internals/features/activities/activity/model"
	assignmentModel "congregation_backend/internals/features/activities/assignment/model"
	attendanceModel "congregation_backend/internals/features/activities/attendance/model"
	announcementModel "congregation_backend/internals/features/content/announcements/model"
	galleryModel "congregation_backend/internals/features/content/gallery/model"
	settingsModel "congregation_backend/internals/features/content/settings/model"
	contributionModel "congregation_backend/internals/features/contributions/model"
	memberModel "congregation_backend/internals/features/members/model"
	notificationModel "congregation_backend/internals/features/notifications/model"
	authModel "congregation_backend/internals/features/users/auth/model"
	"congregation_backend/internals/helpers/writeonce"
)

var DB *gorm.DB

func ConnectDB(cfg *configs.Config) {
	log.Println("[INFO] connecting to PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("[FATAL] database connect: %v", err)
	}
	DB = db
	log.Println("[INFO] database connected")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("[WARN] pool tune: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("[WARN] warm-up ping: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&memberModel.MemberModel{},
		&activityModel.ActivityModel{},
		&assignmentModel.ActivityAssignmentModel{},
		&attendanceModel.AttendanceModel{},
		&writeonce.Seal{},
		&contributionModel.ContributionEventModel{},
		&contributionModel.ContributionModel{},
		&contributionModel.ExpenseModel{},
		&announcementModel.AnnouncementModel{},
		&galleryModel.GalleryItemModel{},
		&settingsModel.SiteSettingModel{},
		&authModel.TokenBlacklist{},
		&notificationModel.NotificationModel{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
