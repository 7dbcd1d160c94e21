package retry

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Policy controls how many times an operation is reattempted and how long the
// executor waits between attempts. The delay before reattempt n (0-indexed) is
// BaseDelay * 2^n.
type Policy struct {
	MaxRetries           int
	BaseDelay            time.Duration
	RetryableStatusCodes map[int]bool
}

// DefaultPolicy returns the policy used for backend calls unless a caller
// overrides it.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:           3,
		BaseDelay:            time.Second,
		RetryableStatusCodes: map[int]bool{429: true, 503: true},
	}
}

// StatusCoder is implemented by errors that carry an upstream status code.
type StatusCoder interface {
	StatusCode() int
}

var transientMarkers = []string{
	"connection reset",
	"connection refused",
	"timeout",
	"timed out",
	"fetch failed",
	"network",
	"socket hang up",
}

// Retryable reports whether err is worth reattempting: either it carries a
// status code from the retryable set, or its message matches a known
// transient-network marker.
func (p Policy) Retryable(err error) bool {
	var coder StatusCoder
	if errors.As(err, &coder) {
		return p.RetryableStatusCodes[coder.StatusCode()]
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func (p Policy) delay(attempt int) time.Duration {
	return p.BaseDelay * (1 << attempt)
}

// Do runs op until it succeeds and returns its value. A non-retryable failure
// is returned unchanged on first occurrence; a retryable one is reattempted up
// to MaxRetries times (MaxRetries 0 means a single attempt) and the last error
// is returned unchanged once attempts are spent. The backoff wait honours ctx
// cancellation so an abandoned call never leaks its timer.
func Do[T any](ctx context.Context, logger *slog.Logger, policy Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		value, err := op(ctx)
		if err == nil {
			return value, nil
		}

		if !policy.Retryable(err) || attempt >= policy.MaxRetries {
			return zero, err
		}

		delay := policy.delay(attempt)
		if logger != nil {
			logger.Warn("retrying after transient failure",
				"attempt", attempt+1,
				"max_attempts", policy.MaxRetries+1,
				"delay", delay,
				"error", err.Error(),
			)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}
