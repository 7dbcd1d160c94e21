package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type statusErr struct {
	status  int
	message string
}

func (e statusErr) Error() string   { return e.message }
func (e statusErr) StatusCode() int { return e.status }

func testPolicy(maxRetries int) Policy {
	return Policy{
		MaxRetries:           maxRetries,
		BaseDelay:            time.Millisecond,
		RetryableStatusCodes: map[int]bool{429: true, 503: true},
	}
}

func TestDoSucceedingImmediatelyRunsOnce(t *testing.T) {
	calls := 0
	value, err := Do(context.Background(), nil, testPolicy(3), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "ok" {
		t.Fatalf("expected ok, got %q", value)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestDoRetriesRetryableStatusThenSucceeds(t *testing.T) {
	calls := 0
	value, err := Do(context.Background(), nil, testPolicy(2), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, statusErr{status: 429, message: "rate limited"}
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != 42 {
		t.Fatalf("expected 42, got %d", value)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoReturnsNonRetryableErrorUnchanged(t *testing.T) {
	calls := 0
	original := statusErr{status: 400, message: "bad request"}
	_, err := Do(context.Background(), nil, testPolicy(3), func(context.Context) (int, error) {
		calls++
		return 0, original
	})
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
	if !errors.Is(err, error(original)) && err.Error() != original.Error() {
		t.Fatalf("expected original error back, got %v", err)
	}
	var coder StatusCoder
	if !errors.As(err, &coder) || coder.StatusCode() != 400 {
		t.Fatalf("expected status code preserved, got %v", err)
	}
}

func TestDoExhaustsRetriesAndReturnsLastError(t *testing.T) {
	calls := 0
	policy := testPolicy(2)
	_, err := Do(context.Background(), nil, policy, func(context.Context) (int, error) {
		calls++
		return 0, statusErr{status: 503, message: fmt.Sprintf("unavailable %d", calls)}
	})
	if calls != policy.MaxRetries+1 {
		t.Fatalf("expected %d attempts, got %d", policy.MaxRetries+1, calls)
	}
	if err == nil || err.Error() != "unavailable 3" {
		t.Fatalf("expected last observed error, got %v", err)
	}
}

func TestDoZeroMaxRetriesMeansSingleAttempt(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), nil, testPolicy(0), func(context.Context) (int, error) {
		calls++
		return 0, statusErr{status: 429, message: "rate limited"}
	})
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestDoStopsBackoffOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	policy := Policy{
		MaxRetries:           5,
		BaseDelay:            time.Hour,
		RetryableStatusCodes: map[int]bool{429: true},
	}

	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, nil, policy, func(context.Context) (int, error) {
			calls++
			return 0, statusErr{status: 429, message: "rate limited"}
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("backoff wait did not observe cancellation")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt before cancellation, got %d", calls)
	}
}

func TestRetryableRecognisesTransientMarkers(t *testing.T) {
	policy := testPolicy(3)
	for _, message := range []string{
		"read tcp: connection reset by peer",
		"dial tcp: connection refused",
		"context deadline exceeded (Client.Timeout exceeded)",
		"fetch failed",
		"network is unreachable",
		"socket hang up",
	} {
		if !policy.Retryable(errors.New(message)) {
			t.Fatalf("expected %q to be retryable", message)
		}
	}
	if policy.Retryable(errors.New("invalid request body")) {
		t.Fatalf("expected plain error to be non-retryable")
	}
}

func TestDelayDoublesPerAttempt(t *testing.T) {
	policy := Policy{BaseDelay: 100 * time.Millisecond}
	if got := policy.delay(0); got != 100*time.Millisecond {
		t.Fatalf("expected base delay for first reattempt, got %v", got)
	}
	if got := policy.delay(1); got != 200*time.Millisecond {
		t.Fatalf("expected doubled delay for second reattempt, got %v", got)
	}
	if got := policy.delay(2); got != 400*time.Millisecond {
		t.Fatalf("expected quadrupled delay for third reattempt, got %v", got)
	}
}
