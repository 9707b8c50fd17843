// Package retry provides a bounded retry loop with exponential backoff for
// transient X API failures during startup calls.
package retry

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	defaultMaxRetries   = 5
	defaultInitialDelay = 2 * time.Second
	delayMultiplier     = 2
)

type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxRetries:   defaultMaxRetries,
		InitialDelay: defaultInitialDelay,
	}
}

// Do runs op until it succeeds, fails with a non-transient error, or the
// retry budget is exhausted. Only errors recognized as transient by
// IsTransient are retried.
func Do(ctx context.Context, cfg Config, op func(ctx context.Context) error) error {
	var lastErr error

	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry interrupted: %w", ctx.Err())
			case <-time.After(delay):
				delay *= delayMultiplier
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if !IsTransient(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("retries exhausted after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}

// IsTransient reports whether the error looks like a temporary service
// condition worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	return strings.Contains(msg, "503") ||
		strings.Contains(msg, "Service Unavailable") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit")
}
