package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a minimum interval between successive page fetches within
// one logical request, to stay under the target site's abuse thresholds.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

func New(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Wait blocks until at least the configured interval has passed since the
// previous Wait returned, or until the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if elapsed := time.Since(l.last); elapsed < l.interval {
		t := time.NewTimer(l.interval - elapsed)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	l.last = time.Now()
	return nil
}
