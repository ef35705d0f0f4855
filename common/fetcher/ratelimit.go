package fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Clock abstracts time for the rate limiter.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RateLimiter enforces a minimum interval between requests to the same host.
// The slot is reserved before the caller's request starts, so concurrent
// callers for one host are spaced out even when a fetch is slow.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
	clock    Clock
}

type RateLimiterOption func(*RateLimiter)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) RateLimiterOption {
	return func(r *RateLimiter) {
		r.clock = c
	}
}

func NewRateLimiter(interval time.Duration, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
		clock:    systemClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RateLimiter) limiter(host string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	lim, ok := r.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(r.interval), 1)
		r.limiters[host] = lim
	}
	return lim
}

// Wait blocks until a request to host may start.
func (r *RateLimiter) Wait(ctx context.Context, host string) error {
	if r.interval <= 0 {
		return nil
	}

	lim := r.limiter(host)
	now := r.clock.Now()
	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return fmt.Errorf("rate limiter refused a request to %s", host)
	}

	delay := res.DelayFrom(now)
	if delay <= 0 {
		return nil
	}
	if err := r.clock.Sleep(ctx, delay); err != nil {
		res.CancelAt(r.clock.Now())
		return err
	}
	return nil
}

// Seen reports whether a request to host has ever been rate limited.
func (r *RateLimiter) Seen(host string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.limiters[host]
	return ok
}
