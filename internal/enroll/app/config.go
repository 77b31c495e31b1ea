package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	SessionSecret string // Required: HMAC secret for verifying session tokens

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./enroll.db)
	InvitationTTL        time.Duration // Optional: invitation link lifetime (default: 7 days)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	// Bootstrap admin, seeded only when the database has no users yet.
	SeedAdminEmail    string
	SeedAdminName     string
	SeedAdminPassword string
}

func LoadConfig() Config {
	return Config{
		SessionSecret:        os.Getenv("ENROLL_SESSION_SECRET"),
		DatabaseFile:         getEnvOrDefault("ENROLL_DATABASE_FILE", "enroll.db"),
		InvitationTTL:        getEnvDurationOrDefault("ENROLL_INVITATION_TTL", 7*24*time.Hour),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		SeedAdminEmail:       os.Getenv("ENROLL_SEED_ADMIN_EMAIL"),
		SeedAdminName:        getEnvOrDefault("ENROLL_SEED_ADMIN_NAME", "Administrator"),
		SeedAdminPassword:    os.Getenv("ENROLL_SEED_ADMIN_PASSWORD"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
