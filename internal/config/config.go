package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	UploadDir string
	LogDir    string

	// HarvestScanSchedule is a standard 5-field cron expression.
	HarvestScanSchedule string

	GinMode string
}

func Load() *Config {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	return &Config{
		DBDriver:            getEnv("DB_DRIVER", "mysql"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "3306"),
		DBUser:              getEnv("DB_USER", "farmuser"),
		DBPassword:          getEnv("DB_PASSWORD", "farmpassword"),
		DBName:              getEnv("DB_NAME", "farm_management"),
		JWTSecret:           getEnv("JWT_SECRET", "default-secret-key-change-me"),
		AccessTokenTTL:      getEnvDuration("ACCESS_TOKEN_TTL_MINUTES", 15) * time.Minute,
		RefreshTokenTTL:     getEnvDuration("REFRESH_TOKEN_TTL_HOURS", 24*7) * time.Hour,
		UploadDir:           getEnv("UPLOAD_DIR", "./uploads"),
		LogDir:              getEnv("LOG_DIR", "./logs"),
		HarvestScanSchedule: getEnv("HARVEST_SCAN_SCHEDULE", "0 6 * * *"),
		GinMode:             getEnv("GIN_MODE", "debug"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue int64) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(defaultValue)
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return time.Duration(defaultValue)
	}
	return time.Duration(n)
}
