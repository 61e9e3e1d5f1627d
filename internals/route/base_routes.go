package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type healthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	ServerTime    string `json:"serverTime"`
	UptimeSeconds int    `json:"uptimeSeconds"`
}

// BaseRoutes mounts the banner and the health probe. The probe answers 503
// when the database does not respond within two seconds.
func BaseRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Congregation backend is running")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		res := healthResponse{
			Status:        "OK",
			Database:      "up",
			ServerTime:    time.Now().Format(time.RFC3339),
			UptimeSeconds: int(time.Since(startTime).Seconds()),
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			res.Status, res.Database = "DOWN", "unreachable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(res)
		}
		return c.JSON(res)
	})
}
