package batch

import (
	"context"
	"time"

	"github.com/dashkite/unfurl"
)

// UnfurlFunc is the signature for an unfurl function.
type UnfurlFunc func(ctx context.Context, url string) (*unfurl.Metadata, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for unfurl retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// UnfurlWithRetry attempts to unfurl a URL with exponential backoff retry logic.
// It retries up to 3 times (4 total attempts) with delays of 1s, 2s, 4s.
func UnfurlWithRetry(ctx context.Context, url string, fn UnfurlFunc, logger LogFunc) (*unfurl.Metadata, error) {
	return UnfurlWithRetryDelays(ctx, url, fn, logger, DefaultRetryDelays())
}

// UnfurlWithRetryDelays is like UnfurlWithRetry but allows configurable delays.
// Errors that a retry cannot fix (EINVALID, ENOTHTML) return immediately.
func UnfurlWithRetryDelays(ctx context.Context, url string, fn UnfurlFunc, logger LogFunc, delays []time.Duration) (*unfurl.Metadata, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		m, err := fn(ctx, url)
		if err == nil {
			return m, nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}

func retryable(err error) bool {
	switch unfurl.ErrorCode(err) {
	case unfurl.EINVALID, unfurl.ENOTHTML:
		return false
	}
	return true
}
