package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"congregation_backend/internals/configs"
	database "congregation_backend/internals/databases"
	scheduler "congregation_backend/internals/features/users/auth/scheduler"
	middlewares "congregation_backend/internals/middlewares"
	routes "congregation_backend/internals/route"
)

func main() {
	cfg := configs.LoadEnv()

	app := routes.NewApp()
	middlewares.SetupMiddlewares(app, cfg)

	database.ConnectDB(cfg)
	database.TunePool()
	database.WarmUpQueries()
	if cfg.DBMigrate {
		if err := database.Migrate(database.DB); err != nil {
			log.Fatalf("[FATAL] migrate: %v", err)
		}
		log.Println("[INFO] schema migrated")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	scheduler.StartBlacklistCleanupScheduler(ctx, database.DB, cfg.TokenBlacklistTTLDays)

	routes.SetupRoutes(app, database.DB, cfg, nil)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("[INFO] listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
