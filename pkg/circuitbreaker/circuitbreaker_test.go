package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBreaker(cfg Config) (*Breaker, *clock) {
	c := &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := New("test", cfg)
	b.now = c.Now
	return b, c
}

func fail() error { return errBackend }
func succeed() error { return nil }

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b, _ := newTestBreaker(Config{Failures: 3, Cooldown: time.Minute})

	// 成功会清零连续失败
	assert.ErrorIs(t, b.Execute(fail), errBackend)
	assert.ErrorIs(t, b.Execute(fail), errBackend)
	require.NoError(t, b.Execute(succeed))
	assert.Equal(t, StateClosed, b.State())

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Execute(fail), errBackend)
	}
	assert.Equal(t, StateOpen, b.State())

	called := false
	err := b.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	b, c := newTestBreaker(Config{Failures: 1, Cooldown: time.Minute})
	require.ErrorIs(t, b.Execute(fail), errBackend)
	require.Equal(t, StateOpen, b.State())

	c.Advance(time.Minute)
	assert.Equal(t, StateHalfOpen, b.State())

	// 探测失败重新打开，冷却期重新计时
	assert.ErrorIs(t, b.Execute(fail), errBackend)
	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Execute(succeed), ErrOpen)

	c.Advance(time.Minute)
	require.NoError(t, b.Execute(succeed))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_SingleProbe(t *testing.T) {
	b, c := newTestBreaker(Config{Failures: 1, Cooldown: time.Second})
	require.ErrorIs(t, b.Execute(fail), errBackend)
	c.Advance(time.Second)

	probe := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- b.Execute(func() error { <-probe; return nil })
	}()

	// 等探测请求占住半开名额
	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.probing
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, b.Execute(succeed), ErrOpen)

	close(probe)
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_StateChangeCallback(t *testing.T) {
	changes := make(chan [2]State, 4)
	b, c := newTestBreaker(Config{
		Failures: 1,
		Cooldown: time.Second,
		OnStateChange: func(name string, from, to State) {
			assert.Equal(t, "test", name)
			changes <- [2]State{from, to}
		},
	})

	_ = b.Execute(fail)
	c.Advance(time.Second)
	_ = b.Execute(succeed)

	got := map[[2]State]bool{}
	for i := 0; i < 3; i++ {
		select {
		case ch := <-changes:
			got[ch] = true
		case <-time.After(time.Second):
			t.Fatal("缺少状态切换回调")
		}
	}
	assert.True(t, got[[2]State{StateClosed, StateOpen}])
	assert.True(t, got[[2]State{StateOpen, StateHalfOpen}])
	assert.True(t, got[[2]State{StateHalfOpen, StateClosed}])
}

func TestDefaults(t *testing.T) {
	b := New("x", Config{})
	assert.Equal(t, 5, b.failures)
	assert.Equal(t, 30*time.Second, b.cooldown)
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half_open", StateHalfOpen.String())
}
