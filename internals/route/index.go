package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/configs"
	activityRoute "congregation_backend/internals/features/activities/activity/route"
	attendanceRoute "congregation_backend/internals/features/activities/attendance/route"
	attendanceService "congregation_backend/internals/features/activities/attendance/service"
	announcementRoute "congregation_backend/internals/features/content/announcements/route"
	galleryRoute "congregation_backend/internals/features/content/gallery/route"
	settingsRoute "congregation_backend/internals/features/content/settings/route"
	contributionRoute "congregation_backend/internals/features/contributions/route"
	contributionService "congregation_backend/internals/features/contributions/service"
	memberRoute "congregation_backend/internals/features/members/route"
	notificationRoute "congregation_backend/internals/features/notifications/route"
	notificationService "congregation_backend/internals/features/notifications/service"
	authRoute "congregation_backend/internals/features/users/auth/route"
	helper "congregation_backend/internals/helpers"
	"congregation_backend/internals/helpers/dbtime"
)

var startTime time.Time

// SetupRoutes mounts every feature under /api. The clock is injectable so
// tests can pin "now" for the attendance lock window.
func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *configs.Config, clock dbtime.Clock) {
	startTime = time.Now()
	if clock == nil {
		clock = dbtime.SystemClock
	}
	loc := dbtime.LoadLocation(cfg.Timezone)

	BaseRoutes(app, db)
	app.Static(helper.UploadURLPrefix, cfg.UploadDir, fiber.Static{MaxAge: 3600})

	attendance := attendanceService.NewLedger(db, clock, loc)
	contributions := contributionService.NewLedger(db, clock)
	notifier := notificationService.NewNotifier(db, clock, loc)

	api := app.Group("/api")

	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(api, db)

	log.Println("[INFO] Setting up MemberRoutes...")
	memberRoute.MemberRoutes(api, db)

	log.Println("[INFO] Setting up ActivityRoutes...")
	activityRoute.ActivityRoutes(api, db, attendance)
	attendanceRoute.AttendanceRoutes(api, db, attendance)

	log.Println("[INFO] Setting up ContributionRoutes...")
	contributionRoute.ContributionRoutes(api, db, contributions, cfg)

	log.Println("[INFO] Setting up NotificationRoutes...")
	notificationRoute.NotificationRoutes(api, db, notifier)

	log.Println("[INFO] Setting up content routes...")
	announcementRoute.AnnouncementRoutes(api, db, cfg)
	galleryRoute.GalleryRoutes(api, db, cfg)
	settingsRoute.SiteSettingRoutes(api, db)
}
