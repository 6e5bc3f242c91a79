// Package retry provides a bounded retry loop with exponential backoff for
// transient storage failures. Domain errors (anything in the errs taxonomy)
// are never retried; they surface immediately.
package retry

import (
	"context"
	"errors"
	"time"

	"parceltrack/internal/pkg/errs"
)

// DefaultAttempts is the number of tries a mutation makes against the store
// before surfacing Unavailable to the caller.
const DefaultAttempts = 3

// DefaultBaseDelay is the backoff before the second attempt; it doubles on
// each subsequent attempt.
const DefaultBaseDelay = 50 * time.Millisecond

// Retryable reports whether an error is worth retrying. Errors from the errs
// taxonomy describe business outcomes and are final; everything else is
// treated as a transient infrastructure failure.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	for _, sentinel := range []error{
		errs.ErrObjectNotFound,
		errs.ErrValueIsInvalid,
		errs.ErrValueIsOutOfRange,
		errs.ErrValueIsRequired,
		errs.ErrVersionIsInvalid,
		errs.ErrNotAuthorized,
	} {
		if errors.Is(err, sentinel) {
			return false
		}
	}
	return true
}

// Do runs fn up to attempts times, sleeping baseDelay, 2*baseDelay, ... between
// tries. It stops early on success, on a non-retryable error, or when ctx is
// done. The last error is returned wrapped as Unavailable when all attempts
// were transient failures.
func Do(ctx context.Context, attempts int, baseDelay time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := baseDelay

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errs.NewUnavailableErrorWithCause("store", ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !Retryable(lastErr) {
			return lastErr
		}
	}

	return errs.NewUnavailableErrorWithCause("store", lastErr)
}
