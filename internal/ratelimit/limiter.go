package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a fixed minimum interval between grants, derived from a
// calls-per-minute ceiling. One instance guards exactly one external API;
// sharing an instance across APIs would throttle them against each other.
//
// The mutex is held across the wait on purpose: callers are granted in
// arrival order and at most one is counting down at a time.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

func New(callsPerMinute int) *Limiter {
	if callsPerMinute <= 0 {
		callsPerMinute = 60
	}
	return &Limiter{
		interval: time.Duration(float64(time.Minute) / float64(callsPerMinute)),
	}
}

// Acquire blocks until one more call may be issued, or until ctx is
// cancelled. It never fails for any other reason.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() {
		if wait := l.interval - time.Since(l.last); wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}
		}
	}
	l.last = time.Now()
	return nil
}

// Interval reports the enforced minimum spacing between grants.
func (l *Limiter) Interval() time.Duration {
	if l == nil {
		return 0
	}
	return l.interval
}
