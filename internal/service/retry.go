package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/mediadiet/mediadiet/internal/store"
)

// DefaultWriteAttempts bounds how often a conflicting transaction is rerun.
const DefaultWriteAttempts = 5

// retryConflicts reruns fn while it fails with a store conflict. Any other
// error, or a cancelled context, stops immediately.
func retryConflicts(ctx context.Context, attempts uint, logger *slog.Logger, op string, fn func() error) error {
	if attempts == 0 {
		attempts = DefaultWriteAttempts
	}
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(5*time.Millisecond),
		retry.MaxDelay(100*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(store.IsConflict),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("retrying conflicting write", "op", op, "attempt", n+1, "error", err)
		}),
	)
}
