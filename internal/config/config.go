package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Environment    string
	LogLevel       slog.Level
	LogFile        string // rotated log file; empty logs to stderr
	RedisURL       string // report cache; empty disables caching
	ReportCacheTTL time.Duration
	ScriptDir      string
	VocabularyFile string // YAML speaker list; empty uses the built-in one
	WrapWidth      int
}

func Load() (*Config, error) {
	ttl, err := time.ParseDuration(getEnv("REPORT_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_CACHE_TTL: %w", err)
	}

	width, err := strconv.Atoi(getEnv("WRAP_WIDTH", "80"))
	if err != nil {
		return nil, fmt.Errorf("invalid WRAP_WIDTH: %w", err)
	}
	if width < 20 {
		return nil, fmt.Errorf("WRAP_WIDTH must be at least 20, got %d", width)
	}

	return &Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:        os.Getenv("LOG_FILE"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ReportCacheTTL: ttl,
		ScriptDir:      getEnv("SCRIPT_DIR", "scripts"),
		VocabularyFile: os.Getenv("VOCABULARY_FILE"),
		WrapWidth:      width,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
