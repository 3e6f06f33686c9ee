package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/story-script/pkg/validate"
)

// RedisReportCache implements ReportCache on Redis.
type RedisReportCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisReportCache implements ReportCache interface
var _ ReportCache = (*RedisReportCache)(nil)

// NewRedisReportCache creates a cache from a redis:// URL or a bare
// host:port address. Reports expire after ttl; zero keeps them forever.
func NewRedisReportCache(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisReportCache, error) {
	opt := &redis.Options{Addr: redisURL}
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		opt = parsed
	}

	return &RedisReportCache{
		client: redis.NewClient(opt),
		logger: logger,
		ttl:    ttl,
	}, nil
}

// Health and lifecycle methods

func (r *RedisReportCache) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisReportCache) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Debug("Redis connection closed")
	return nil
}

// WaitForConnection retries Ping until Redis answers or attempts run out.
func (r *RedisReportCache) WaitForConnection(ctx context.Context, attempts int, delay time.Duration) error {
	for i := 0; i < attempts; i++ {
		err := r.Ping(ctx)
		if err == nil {
			r.logger.Debug("Redis connection established")
			return nil
		}
		r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("redis did not become available after %d attempts", attempts)
}

// Report methods

func (r *RedisReportCache) GetReport(ctx context.Context, key string) (*validate.Report, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Report not cached", "key", key)
			return nil, nil
		}
		r.logger.Error("Failed to load report", "key", key, "error", err)
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report validate.Report
	if err := json.Unmarshal(data, &report); err != nil {
		r.logger.Error("Failed to unmarshal report", "key", key, "error", err)
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

func (r *RedisReportCache) SaveReport(ctx context.Context, key string, report *validate.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		r.logger.Error("Failed to marshal report", "key", key, "error", err)
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save report", "key", key, "error", err)
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func (r *RedisReportCache) DeleteReport(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete report", "key", key, "error", err)
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}
