package configs

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

type Config struct {
	Port string `env:"PORT" envDefault:"3000"`

	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"require"`
	DBMigrate  bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"168h"`

	// Civil timezone of the congregation; activity dates and times are read in it.
	Timezone string `env:"APP_TIMEZONE" envDefault:"Local"`

	UploadDir       string   `env:"UPLOAD_DIR" envDefault:"./uploads"`
	GalleryMaxWidth int      `env:"GALLERY_MAX_WIDTH" envDefault:"1600"`
	CORSOrigins     []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	TokenBlacklistTTLDays int  `env:"TOKEN_BLACKLIST_TTL_DAYS" envDefault:"7"`
	SecureCookies         bool `env:"SECURE_COOKIES" envDefault:"false"`

	// Shared passkey for the contributions screen; empty rejects every attempt.
	ContributionPasskey string `env:"CONTRIBUTION_PASSKEY"`
}

var (
	JWTSecret string
	current   *Config
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() *Config {
	// managed deployments inject the environment directly
	if GetEnv("APP_ENV", "development") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("[WARN] .env not found, using system environment")
		} else {
			log.Println("[INFO] .env loaded")
		}
	}

	cfg, err := Parse()
	if err != nil {
		log.Fatalf("[FATAL] config: %v", err)
	}

	JWTSecret = cfg.JWTSecret
	if JWTSecret == "" {
		log.Println("[ERROR] JWT_SECRET is not set")
	}
	current = cfg
	return cfg
}

// Parse reads the environment into a Config without touching .env files.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	return &cfg, nil
}

// Current returns the config loaded by LoadEnv (nil before that).
func Current() *Config { return current }

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=congregation&options=-c%%20statement_timeout%%3D3000",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
