package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// newTestClient 需要真实Redis：CATALOG_TEST_REDIS_ADDR=localhost:6379
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("CATALOG_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("未设置CATALOG_TEST_REDIS_ADDR，跳过Redis测试")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, Ping(context.Background(), client))
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	ctx := context.Background()
	l := NewRateLimiter(newTestClient(t), 2, time.Minute)

	now := time.Date(2026, 1, 1, 0, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return now }
	key := uuid.NewString()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	// 下一个窗口重新计数
	now = now.Add(time.Minute)
	ok, err = l.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiter_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := NewRateLimiter(client, 1, time.Second)
	ok, err := l.Allow(context.Background(), "k")
	assert.False(t, ok)
	assert.ErrorIs(t, err, apperrors.ErrRedisError)
	assert.Equal(t, "redis", l.Name())
}
