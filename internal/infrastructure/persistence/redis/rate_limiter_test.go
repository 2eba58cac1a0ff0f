package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "ratelimit:10.0.0.1:/api/generate"

// fixedClock 可手动推进的时钟
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(t *testing.T) (*RateLimiter, *fixedClock, *miniredis.Miniredis) {
	t.Helper()
	c, m := newTestClient(t)
	clock := &fixedClock{t: time.UnixMilli(1_700_000_000_000)}
	l := NewRateLimiter(c)
	l.now = clock.Now
	return l, clock, m
}

// windowSize 当前窗口内记录的请求数
func windowSize(t *testing.T, m *miniredis.Miniredis) int {
	t.Helper()
	if !m.Exists(testKey) {
		return 0
	}
	members, err := m.ZMembers(testKey)
	require.NoError(t, err)
	return len(members)
}

func TestAllowRejectsBeyondLimitWithoutCounting(t *testing.T) {
	l, _, m := newTestLimiter(t)
	ctx := context.Background()

	var got []bool
	for i := 0; i < 5; i++ {
		ok, err := l.Allow(ctx, testKey, 3, time.Minute)
		require.NoError(t, err)
		got = append(got, ok)
	}
	assert.Equal(t, []bool{true, true, true, false, false}, got)
	assert.Equal(t, 3, windowSize(t, m))
}

func TestAllowSameMillisecondMembersAreDistinct(t *testing.T) {
	l, _, m := newTestLimiter(t)

	for i := 0; i < 4; i++ {
		ok, err := l.Allow(context.Background(), testKey, 10, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, 4, windowSize(t, m))
}

func TestAllowSlidesWindow(t *testing.T) {
	l, clock, m := newTestLimiter(t)
	ctx := context.Background()

	ok, err := l.Allow(ctx, testKey, 2, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	clock.Advance(30 * time.Second)
	ok, _ = l.Allow(ctx, testKey, 2, time.Minute)
	require.True(t, ok)
	ok, _ = l.Allow(ctx, testKey, 2, time.Minute)
	require.False(t, ok)

	// 第一条滑出窗口后恢复一个名额
	clock.Advance(31 * time.Second)
	ok, err = l.Allow(ctx, testKey, 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, windowSize(t, m))
}

func TestAllowSetsExpiry(t *testing.T) {
	l, _, m := newTestLimiter(t)
	_, err := l.Allow(context.Background(), testKey, 1, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, m.TTL(testKey))
}

func TestAllowConcurrentRequestsNeverExceedLimit(t *testing.T) {
	l, _, m := newTestLimiter(t)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.Allow(context.Background(), testKey, 5, time.Minute)
			assert.NoError(t, err)
			if ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), allowed.Load())
	assert.Equal(t, 5, windowSize(t, m))
}

func TestAllowReturnsErrorWhenRedisDown(t *testing.T) {
	c, m := newTestClient(t)
	m.Close()

	_, err := NewRateLimiter(c).Allow(context.Background(), testKey, 1, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), testKey)
}
