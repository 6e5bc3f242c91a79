package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryable(t *testing.T) {
	t.Run("domain errors are final", func(t *testing.T) {
		domainErrors := []error{
			errs.NewObjectNotFoundError("parcel", "T1"),
			errs.NewValueIsInvalidError("status"),
			errs.NewValueIsRequiredError("reason"),
			errs.NewValueIsOutOfRangeError("lat", 91, -90, 90),
			errs.NewNotAuthorizedError("cancel parcel"),
		}

		for _, err := range domainErrors {
			assert.False(t, retry.Retryable(err), "expected %v to be final", err)
		}
	})

	t.Run("infrastructure errors are retryable", func(t *testing.T) {
		assert.True(t, retry.Retryable(errors.New("connection refused")))
	})

	t.Run("nil is not retryable", func(t *testing.T) {
		assert.False(t, retry.Retryable(nil))
	})
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("returns nil on first success", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, 3, time.Millisecond, func(context.Context) error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures then succeeds", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, 3, time.Millisecond, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("connection reset")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops immediately on domain error", func(t *testing.T) {
		calls := 0
		wantErr := errs.NewObjectNotFoundError("parcel", "T1")
		err := retry.Do(ctx, 3, time.Millisecond, func(context.Context) error {
			calls++
			return wantErr
		})

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausted attempts surface Unavailable", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, 3, time.Millisecond, func(context.Context) error {
			calls++
			return errors.New("connection refused")
		})

		require.ErrorIs(t, err, errs.ErrUnavailable)
		assert.Equal(t, 3, calls)
	})

	t.Run("cancelled context surfaces Unavailable", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := retry.Do(cancelled, 3, time.Minute, func(context.Context) error {
			return errors.New("timeout")
		})

		require.ErrorIs(t, err, errs.ErrUnavailable)
	})
}
