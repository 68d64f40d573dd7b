// Package ratelimit 写请求限流
//
// 两种后端：
//   - memory: 进程内令牌桶（golang.org/x/time/rate），按客户端分桶
//   - redis:  固定窗口计数（INCR + EXPIRE），多实例共享，见 persistence/redis
//
// 中间件只依赖 Limiter 接口。
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter 判断key对应的客户端本次请求是否放行
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Backend 限流后端名称（用作指标标签）
type Backend interface {
	Name() string
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter 进程内令牌桶
// 每个key一个桶：速率 requests/window，容量 burst。
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	ttl     time.Duration // 超过ttl未出现的key会被清理
	now     func() time.Time
}

// NewMemoryLimiter 创建进程内限流器
// burst<=0 时等于requests
func NewMemoryLimiter(requests int, window time.Duration, burst int) *MemoryLimiter {
	if burst <= 0 {
		burst = requests
	}
	ttl := 3 * window
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(float64(requests) / window.Seconds()),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Name 后端名称
func (m *MemoryLimiter) Name() string { return "memory" }

// Allow 消耗一个令牌
func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

// Sweep 清理长时间未出现的key，返回清理数量
func (m *MemoryLimiter) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for key, b := range m.buckets {
		if now.Sub(b.lastSeen) > m.ttl {
			delete(m.buckets, key)
			n++
		}
	}
	return n
}

// Run 周期性清理，直到ctx取消
func (m *MemoryLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-ctx.Done():
			return
		}
	}
}

// Len 当前桶数量
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}
