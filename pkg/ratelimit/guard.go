package ratelimit

import (
	"context"
	"fmt"

	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
)

// GuardedLimiter 熔断保护的远端限流器
// 后端连续出错后熔断器打开，期间Allow立即返回错误，不再等待网络超时；
// 中间件对错误放行，所以熔断期间等同于不限流。
type GuardedLimiter struct {
	next    Limiter
	breaker *circuitbreaker.Breaker
}

// Guard 用熔断器包装limiter
func Guard(next Limiter, breaker *circuitbreaker.Breaker) *GuardedLimiter {
	return &GuardedLimiter{next: next, breaker: breaker}
}

// Name 沿用被包装后端的名称
func (g *GuardedLimiter) Name() string {
	if b, ok := g.next.(Backend); ok {
		return b.Name()
	}
	return "guarded"
}

// Allow 熔断器关闭时转发给后端
func (g *GuardedLimiter) Allow(ctx context.Context, key string) (bool, error) {
	var allowed bool
	err := g.breaker.Execute(func() error {
		var err error
		allowed, err = g.next.Allow(ctx, key)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", g.breaker.Name(), err)
	}
	return allowed, nil
}
