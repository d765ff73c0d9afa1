package usecase

import (
	"context"
	"time"

	"cinema-tickets/internal/data/repository"
)

const maxTxAttempts = 3

// withTxRetry re-runs fn on serialization failures and deadlocks. Conflict
// and validation errors pass through untouched.
func withTxRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
			}
		}

		err = fn()
		if err == nil || !repository.IsRetryable(err) {
			return err
		}
	}
	return err
}
