package fetcher

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock never blocks. When advance is set, Sleep moves the clock forward.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	advance bool
	slept   []time.Duration
}

func newFakeClock(advance bool) *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), advance: advance}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slept = append(c.slept, d)
	if c.advance {
		c.now = c.now.Add(d)
	}
	return nil
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Slept() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.slept)
}

func TestRateLimiterSameHost(t *testing.T) {
	clock := newFakeClock(true)
	limiter := NewRateLimiter(2000*time.Millisecond, WithClock(clock))
	ctx := context.Background()

	start := clock.Now()
	require.NoError(t, limiter.Wait(ctx, "example.org"))
	assert.Equal(t, start, clock.Now(), "first request must not wait")

	require.NoError(t, limiter.Wait(ctx, "example.org"))
	assert.GreaterOrEqual(t, clock.Now().Sub(start), 2000*time.Millisecond)
}

func TestRateLimiterDifferentHosts(t *testing.T) {
	clock := newFakeClock(true)
	limiter := NewRateLimiter(2*time.Second, WithClock(clock))
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, "a.example"))
	require.NoError(t, limiter.Wait(ctx, "b.example"))
	assert.Empty(t, clock.Slept())
}

func TestRateLimiterIntervalElapsed(t *testing.T) {
	clock := newFakeClock(false)
	limiter := NewRateLimiter(2*time.Second, WithClock(clock))
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, "example.org"))
	clock.Add(3 * time.Second)
	require.NoError(t, limiter.Wait(ctx, "example.org"))
	assert.Empty(t, clock.Slept())
}

func TestRateLimiterConcurrentCallersAreSpaced(t *testing.T) {
	clock := newFakeClock(false)
	limiter := NewRateLimiter(2*time.Second, WithClock(clock))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, limiter.Wait(context.Background(), "example.org"))
		}()
	}
	wg.Wait()

	slept := clock.Slept()
	slices.Sort(slept)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 6 * time.Second, 8 * time.Second}, slept)
}

func TestRateLimiterCancelledWaitReleasesSlot(t *testing.T) {
	clock := newFakeClock(false)
	limiter := NewRateLimiter(2*time.Second, WithClock(clock))

	require.NoError(t, limiter.Wait(context.Background(), "example.org"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, limiter.Wait(ctx, "example.org"), context.Canceled)

	require.NoError(t, limiter.Wait(context.Background(), "example.org"))
	assert.Equal(t, []time.Duration{2 * time.Second}, clock.Slept())
}

func TestRateLimiterSeen(t *testing.T) {
	limiter := NewRateLimiter(time.Second, WithClock(newFakeClock(true)))
	assert.False(t, limiter.Seen("example.org"))
	require.NoError(t, limiter.Wait(context.Background(), "example.org"))
	assert.True(t, limiter.Seen("example.org"))
}
