package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/config"
	"github.com/mamadbah2/timeclock/internal/domain/models"
)

const (
	statusPrefix = "timeclock:status"

	defaultStatusTTL = 12 * time.Hour
)

// StatusCache remembers the last action of each staff member.
type StatusCache interface {
	Get(ctx context.Context, staffID string) (models.Action, bool, error)
	Set(ctx context.Context, staffID string, action models.Action) error
	SetIfAbsent(ctx context.Context, staffID string, action models.Action) error
	Delete(ctx context.Context, staffIDs ...string) error
}

// RedisStatusCache stores staff statuses as plain string keys with a TTL.
type RedisStatusCache struct {
	client *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClient opens a client and verifies the server answers.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisStatusCache wraps an existing client.
func NewRedisStatusCache(client *goredis.Client, ttl time.Duration, logger *zap.Logger) *RedisStatusCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultStatusTTL
	}
	return &RedisStatusCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached action. ok is false on a miss or when the cached
// value is not a known action.
func (c *RedisStatusCache) Get(ctx context.Context, staffID string) (models.Action, bool, error) {
	value, err := c.client.Get(ctx, statusKey(staffID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached status: %w", err)
	}

	action, ok := decodeAction(value)
	if !ok {
		c.logger.Warn("discarding unknown cached status", zap.String("staff_id", staffID), zap.String("value", value))
	}
	return action, ok, nil
}

// Set records the latest action of a staff member.
func (c *RedisStatusCache) Set(ctx context.Context, staffID string, action models.Action) error {
	if err := c.client.Set(ctx, statusKey(staffID), string(action), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache status: %w", err)
	}
	return nil
}

// SetIfAbsent caches action only when no status is cached yet. Read-through
// fills use it so they never replace a value written by a newer event.
func (c *RedisStatusCache) SetIfAbsent(ctx context.Context, staffID string, action models.Action) error {
	if err := c.client.SetNX(ctx, statusKey(staffID), string(action), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to fill cached status: %w", err)
	}
	return nil
}

// Delete drops the cached status of the given staff members.
func (c *RedisStatusCache) Delete(ctx context.Context, staffIDs ...string) error {
	if len(staffIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(staffIDs))
	for _, id := range staffIDs {
		keys = append(keys, statusKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached status: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *RedisStatusCache) Close() error {
	return c.client.Close()
}

func statusKey(staffID string) string {
	return strings.Join([]string{statusPrefix, staffID}, ":")
}

func decodeAction(value string) (models.Action, bool) {
	action := models.Action(value)
	if !action.Valid() {
		return "", false
	}
	return action, true
}
