package database

import (
	"context"
	"fmt"
	"time"

	apperrors "travelbot/internal/common/errors"
)

// Logger is the subset of logging used while waiting for backing services.
type Logger interface {
	Warn(msg string, fields map[string]interface{})
}

// ConnectWithRetry runs connect until it succeeds, doubling the delay between
// attempts. It gives up after maxAttempts with a DATABASE_CONNECTION_FAILED
// error, or earlier with ctx's error when ctx is done.
func ConnectWithRetry(ctx context.Context, name string, maxAttempts int, initialDelay time.Duration, log Logger, connect func(context.Context) error) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxAttempts; i++ {
		if err = connect(ctx); err == nil {
			return nil
		}
		if i == maxAttempts-1 {
			break
		}

		log.Warn(fmt.Sprintf("%s failed, retrying", name), map[string]interface{}{
			"error":       err.Error(),
			"attempt":     i + 1,
			"maxAttempts": maxAttempts,
			"nextRetryIn": delay.String(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", name, ctx.Err())
		}
		delay *= 2
	}

	return apperrors.NewDatabaseConnectionFailedError(
		fmt.Errorf("%s failed after %d attempts: %w", name, maxAttempts, err))
}
