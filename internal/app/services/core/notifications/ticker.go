package notifications

import (
	"context"
	"time"
)

// runEvery calls tick on every interval until ctx is done or stop is closed.
// It returns a function that stops the loop and waits for the current tick.
func runEvery(ctx context.Context, interval time.Duration, tick func(ctx context.Context, now time.Time)) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case now := <-ticker.C:
				tick(ctx, now)
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}

func intervalOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// lockTTL keeps the lock shorter than one interval so a crashed holder never
// blocks the next tick.
func lockTTL(interval time.Duration) time.Duration {
	ttl := interval - time.Second
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}
