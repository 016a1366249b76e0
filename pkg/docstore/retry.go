package docstore

import (
	"context"
	"time"

	fwerrors "github.com/framewright/framewright/pkg/errors"
)

// Connection retry defaults.
const (
	DefaultConnectAttempts = 3
	connectRetryDelay      = 500 * time.Millisecond
)

// retry executes fn up to attempts times with exponential backoff. Only
// storage errors (unreachable server, failed ping) are retried; config and
// validation errors are returned immediately. The delay doubles after each
// failed attempt. Returns the last error if all attempts fail, or ctx.Err()
// if cancelled.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !fwerrors.Is(err, fwerrors.ErrCodeStorage) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
