package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	JWTSecret  string        // Required: HS256 signing secret
	TokenTTL   time.Duration // Optional: access token lifetime (default: 60m)
	ExpiryWarn time.Duration // Optional: pantry expiry warning window (default: 72h)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./kitchen.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	ExpirySweepInterval time.Duration // Pantry expiry sweep interval (default: 12h)
}

var ErrMissingJWTSecret = errors.New("app: KITCHEN_JWT_SECRET is required")

func LoadConfig() (Config, error) {
	cfg := Config{
		JWTSecret:           os.Getenv("KITCHEN_JWT_SECRET"),
		TokenTTL:            getEnvDurationOrDefault("KITCHEN_TOKEN_TTL", 60*time.Minute),
		ExpiryWarn:          getEnvDurationOrDefault("KITCHEN_EXPIRY_WARN_WINDOW", 72*time.Hour),
		DatabaseFile:        getEnvOrDefault("KITCHEN_DATABASE_FILE", "kitchen.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		ExpirySweepInterval: getEnvDurationOrDefault("KITCHEN_EXPIRY_SWEEP_INTERVAL", 12*time.Hour),
	}

	// Refusing to start beats silently signing tokens with an empty secret.
	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	return cfg, nil
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

	// Accept Go durations ("1h", "30m") or bare integer minutes.
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
