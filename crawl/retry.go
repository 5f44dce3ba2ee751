package crawl

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/webgraph"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retry calls fn for url until it succeeds, making one attempt plus one
// retry per delay. Application errors other than EINTERNAL (a disallowed
// URL, an empty page) are returned without retrying. The logger, if set,
// is called before each retry.
func Retry[T any](ctx context.Context, url string, fn func(ctx context.Context, url string) (T, error), logger LogFunc, delays []time.Duration) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		v, err := fn(ctx, url)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt == len(delays) || !retryable(err) {
			break
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return webgraph.ErrorCode(err) == webgraph.EINTERNAL
}
