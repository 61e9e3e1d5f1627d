package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"congregation_backend/internals/configs"
	"congregation_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the app-wide chain: recover first, then logging,
// CORS and the global limiter.
func SetupMiddlewares(app *fiber.App, cfg *configs.Config) {
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware(cfg.Timezone))
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(GlobalRateLimiter())
}
