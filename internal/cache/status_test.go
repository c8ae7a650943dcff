package cache

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

func TestStatusKey(t *testing.T) {
	assert.Equal(t, "timeclock:status:john_doe", statusKey("john_doe"))
}

func TestDecodeAction(t *testing.T) {
	action, ok := decodeAction("lunch")
	assert.True(t, ok)
	assert.Equal(t, models.ActionLunch, action)

	_, ok = decodeAction("coffee")
	assert.False(t, ok)
}

func TestNewRedisStatusCacheDefaultsTTL(t *testing.T) {
	c := NewRedisStatusCache(goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"}), 0, nil)
	defer c.Close()

	assert.Equal(t, defaultStatusTTL, c.ttl)
}

func TestRedisStatusCacheUnreachable(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisStatusCache(client, time.Minute, nil)
	defer c.Close()

	ctx := context.Background()

	_, ok, err := c.Get(ctx, "john_doe")
	require.Error(t, err)
	assert.False(t, ok)

	require.Error(t, c.Set(ctx, "john_doe", models.ActionClockIn))
	require.Error(t, c.SetIfAbsent(ctx, "john_doe", models.ActionClockIn))
	require.Error(t, c.Delete(ctx, "john_doe"))
	assert.NoError(t, c.Delete(ctx))
}
