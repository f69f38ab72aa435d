package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// Refresher is the part of store.Set the poller drives.
type Refresher interface {
	LoadAll(ctx context.Context)
	MaxConsecutiveFailures() int
}

// StartPoller launches a background goroutine that reloads every store, first
// immediately and then at interval. While loads keep failing the wait grows
// exponentially up to maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, stores Refresher, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			stores.LoadAll(ctx)
			if ctx.Err() != nil {
				return
			}

			failures := stores.MaxConsecutiveFailures()
			wait := calculateBackoff(failures, interval)
			if failures > 0 {
				logger.Warn().Int("failures", failures).Dur("next", wait).Msg("refresh failing, backing off")
			}

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// calculateBackoff doubles base once per consecutive failure. The cap only
// applies to backed-off waits so a configured interval above maxBackoff is
// still honoured while healthy.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return max(maxBackoff, base)
		}
	}
	return wait
}
