package llm

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
)

// retryingClient retries transient failures of the wrapped client.
// Context cancellation and deadline errors are never retried.
type retryingClient struct {
	Client
	attempts uint
	delay    time.Duration
}

// WithRetry wraps client so each Complete call is attempted up to maxRetries+1 times.
func WithRetry(client Client, maxRetries int, delay time.Duration) Client {
	if maxRetries <= 0 {
		return client
	}
	return &retryingClient{
		Client:   client,
		attempts: uint(maxRetries + 1),
		delay:    delay,
	}
}

func (r *retryingClient) Complete(ctx context.Context, req Request) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			return r.Client.Complete(ctx, req)
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
}

func isRetryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
