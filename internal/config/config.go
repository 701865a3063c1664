package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort        string
	DBPath         string
	LogLevel       slog.Level
	LogFormat      string
	SessionTTL     time.Duration
	BcryptCost     int
	AllowedOrigins string
}

// Load reads configuration from environment variables and returns a Config.
// If a .env file exists in the current directory or an ancestor (up to the
// module root), it is loaded first; variables already set in the environment
// take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:        getEnv("API_PORT", "9000"),
		DBPath:         getEnv("DB_PATH", "./data/mdnotes.db"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
	}

	switch level := getEnv("LOG_LEVEL", "info"); level {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", level)
	}

	ttlStr := getEnv("SESSION_TTL", "720h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL must be a valid duration: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be greater than 0")
	}
	cfg.SessionTTL = ttl

	costStr := getEnv("BCRYPT_COST", "10")
	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("BCRYPT_COST must be a valid integer: %w", err)
	}
	if cost < 4 || cost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	cfg.BcryptCost = cost

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
