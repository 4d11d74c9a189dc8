package service

import (
	"context"
	"time"
)

// SimulateLatency waits d before a user-facing operation completes, returning early
// with ctx's error if ctx is cancelled. A zero d returns immediately.
func SimulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
