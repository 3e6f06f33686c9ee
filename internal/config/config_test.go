package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "LOG_LEVEL", "LOG_FILE", "REDIS_URL", "REPORT_CACHE_TTL", "SCRIPT_DIR", "VOCABULARY_FILE", "WRAP_WIDTH"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 24*time.Hour, cfg.ReportCacheTTL)
	assert.Equal(t, "scripts", cfg.ScriptDir)
	assert.Equal(t, 80, cfg.WrapWidth)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("REPORT_CACHE_TTL", "90m")
	t.Setenv("WRAP_WIDTH", "100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
	assert.Equal(t, 90*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, 100, cfg.WrapWidth)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad ttl", "REPORT_CACHE_TTL", "tomorrow"},
		{"bad width", "WRAP_WIDTH", "wide"},
		{"narrow width", "WRAP_WIDTH", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}
