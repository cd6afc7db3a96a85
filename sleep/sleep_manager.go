package sleep

import (
	"context"
	"time"
)

// Sleep waits for duration. It returns false if ctx finished first.
func Sleep(ctx context.Context, duration time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
