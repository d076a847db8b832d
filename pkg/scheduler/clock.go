package scheduler

import (
	"context"
	"time"
)

// Clock abstracts time for the scheduler so that tests can drive waits
// without real sleeps.
type Clock interface {
	// Now returns the current time
	Now() time.Time
	// Sleep waits for the given duration or until the context is cancelled
	Sleep(ctx context.Context, d time.Duration) error
}

// systemClock implements Clock using the real time package
type systemClock struct{}

// NewSystemClock returns a Clock backed by the real time package
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
