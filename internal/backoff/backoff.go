// Package backoff provides the two waiting primitives the navigator composes:
// a bounded exponential-backoff retry driver and a bounded poll-until loop.
package backoff

import (
	"context"
	"time"
)

// Retry runs fn up to maxRetries+1 times. Attempt n is preceded by a wait of
// base*2^(n-2), so the first retry waits the base delay. The last observed
// error is returned when every attempt fails.
func Retry(ctx context.Context, maxRetries int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		if attempt > 1 {
			wait := base << (attempt - 2)
			if err := sleep(ctx, wait); err != nil {
				return err
			}
		}
		if lastErr = fn(attempt); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// PollUntil calls cond every interval until it returns true or the timeout
// elapses. Returns true when the condition was met.
func PollUntil(ctx context.Context, interval, timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if err := sleep(ctx, interval); err != nil {
			return false
		}
		if cond() {
			return true
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
