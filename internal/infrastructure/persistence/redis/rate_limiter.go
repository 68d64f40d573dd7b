package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/ratelimit"
)

// RateLimiter 固定窗口限流计数
// 设计说明：
// 1. Key设计：ratelimit:{client}:{窗口序号}，窗口切换即新Key，旧Key自然过期
// 2. INCR与EXPIRE放在同一个Pipeline中，减少一次网络往返
// 3. 多个服务实例共享同一计数
type RateLimiter struct {
	client   *redis.Client
	requests int64
	window   time.Duration
	now      func() time.Time
}

var _ ratelimit.Limiter = (*RateLimiter)(nil)

// NewRateLimiter 创建Redis限流器
func NewRateLimiter(client *redis.Client, requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:   client,
		requests: int64(requests),
		window:   window,
		now:      time.Now,
	}
}

// Name 后端名称
func (l *RateLimiter) Name() string { return "redis" }

// Allow 当前窗口计数+1，未超过上限则放行
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := l.now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, slot)

	var incr *redis.IntCmd
	_, err := l.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: "限流计数失败", Err: err}
	}

	return incr.Val() <= l.requests, nil
}
