// Package circuitbreaker 熔断器
//
// # 状态机
//
//	CLOSED ──连续失败达到阈值──▶ OPEN ──冷却期结束──▶ HALF_OPEN
//	   ▲                                              │
//	   └────────────── 探测成功 ◀─────────────────────┤
//	                   探测失败 ──▶ OPEN ◀────────────┘
//
// HALF_OPEN只放行一个探测请求，其余请求直接返回ErrOpen。
//
// # 使用
//
//	cb := circuitbreaker.New("redis-ratelimit", circuitbreaker.Config{Failures: 5, Cooldown: 30 * time.Second})
//	err := cb.Execute(func() error { return client.Ping(ctx).Err() })
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen 熔断器打开时拒绝执行
var ErrOpen = errors.New("circuit breaker is open")

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Config 熔断参数
type Config struct {
	// Failures 连续失败多少次后打开（<=0 时取5）
	Failures int
	// Cooldown 打开后多久进入半开（<=0 时取30s）
	Cooldown time.Duration
	// OnStateChange 状态切换回调（可选，在锁外调用）
	OnStateChange func(name string, from, to State)
}

// Breaker 按连续失败次数熔断
type Breaker struct {
	name     string
	failures int
	cooldown time.Duration
	notify   func(name string, from, to State)
	now      func() time.Time

	mu          sync.Mutex
	state       State
	consecutive int
	openedAt    time.Time
	probing     bool
}

// New 创建熔断器
func New(name string, cfg Config) *Breaker {
	if cfg.Failures <= 0 {
		cfg.Failures = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &Breaker{
		name:     name,
		failures: cfg.Failures,
		cooldown: cfg.Cooldown,
		notify:   cfg.OnStateChange,
		now:      time.Now,
	}
}

// Name 熔断器名称
func (b *Breaker) Name() string { return b.name }

// State 当前状态（冷却期已过的OPEN视为HALF_OPEN）
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cooldown {
		return StateHalfOpen
	}
	return b.state
}

// Execute 在熔断器保护下执行fn
// 熔断时不调用fn，直接返回ErrOpen。
func (b *Breaker) Execute(fn func() error) error {
	if err := b.before(); err != nil {
		return err
	}
	err := fn()
	b.after(err == nil)
	return err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return ErrOpen
		}
		b.transition(StateHalfOpen)
		b.probing = true
		return nil
	case StateHalfOpen:
		if b.probing {
			return ErrOpen
		}
		b.probing = true
		return nil
	default:
		return nil
	}
}

func (b *Breaker) after(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.consecutive = 0
		if b.state == StateHalfOpen {
			b.probing = false
			b.transition(StateClosed)
		}
		return
	}

	b.consecutive++
	switch b.state {
	case StateHalfOpen:
		b.probing = false
		b.open()
	case StateClosed:
		if b.consecutive >= b.failures {
			b.open()
		}
	}
}

func (b *Breaker) open() {
	b.openedAt = b.now()
	b.transition(StateOpen)
}

// transition 调用方持有锁；回调异步执行，避免回调里再访问熔断器时死锁
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if to == StateClosed {
		b.consecutive = 0
	}
	if b.notify != nil {
		notify, name := b.notify, b.name
		go notify(name, from, to)
	}
}
