package cache

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/schemeview/pkg/httputil"
)

// Sentinel errors for caching operations.
var (
	// ErrNetwork is returned when a remote cache cannot be reached.
	ErrNetwork = errors.New("network error")

	// ErrClosed is returned when a closed cache is used.
	ErrClosed = errors.New("cache closed")
)

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &httputil.RetryableError{Err: err}
}

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	return httputil.IsRetryable(err)
}

// retryDelay is the wait before the first retry; it doubles per attempt.
var retryDelay = 100 * time.Millisecond

// RetryWithBackoff runs fn up to three times while it fails with errors
// marked by [Retryable].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return httputil.Retry(ctx, 3, retryDelay, fn)
}
