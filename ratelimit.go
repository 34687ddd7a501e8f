package sportsdb

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// rateLimiter implements a sliding window rate limiter. Admission is
// serialized: one caller at a time runs the prune/check/enqueue sequence,
// so concurrent requests can never jointly exceed the window cap.
type rateLimiter struct {
	gate chan struct{}

	mu          sync.Mutex
	requests    []time.Time
	maxRequests int
	window      time.Duration

	log *zap.Logger

	// now is swappable so tests can drive the clock.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// newRateLimiter creates a new rate limiter.
func newRateLimiter(maxRequests int, window time.Duration, log *zap.Logger) *rateLimiter {
	return &rateLimiter{
		gate:        make(chan struct{}, 1),
		requests:    make([]time.Time, 0, maxRequests),
		maxRequests: maxRequests,
		window:      window,
		log:         log,
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

// wait blocks until a request may be issued within the rate limit, or until
// ctx is cancelled. A timestamp is only recorded once admission is granted,
// so cancellation never leaves a phantom entry in the window.
func (r *rateLimiter) wait(ctx context.Context) error {
	select {
	case r.gate <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-r.gate }()

	r.mu.Lock()
	r.prune()

	if len(r.requests) < r.maxRequests {
		r.requests = append(r.requests, r.now())
		r.mu.Unlock()
		return nil
	}

	// Window is full. Wait until the oldest entry exits, plus a small
	// buffer so it has actually expired when we re-check.
	oldest := r.requests[0]
	waitTime := r.window - r.now().Sub(oldest) + 10*time.Millisecond
	r.mu.Unlock()

	r.log.Debug("rate limit window full, waiting",
		zap.Duration("wait", waitTime),
		zap.Int("window_size", r.maxRequests),
	)

	if err := r.sleep(ctx, waitTime); err != nil {
		return err
	}

	r.mu.Lock()
	r.prune()
	r.requests = append(r.requests, r.now())
	r.mu.Unlock()
	return nil
}

// prune drops timestamps that have left the trailing window.
// Callers must hold mu.
func (r *rateLimiter) prune() {
	cutoff := r.now().Add(-r.window)
	valid := r.requests[:0]
	for _, req := range r.requests {
		if req.After(cutoff) {
			valid = append(valid, req)
		}
	}
	r.requests = valid
}

// sleepCtx sleeps for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
