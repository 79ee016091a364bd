package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyClient struct {
	failures int
	err      error
	calls    int
}

func (f *flakyClient) Complete(_ context.Context, _ Request) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", f.err
	}
	return `{"Price": "300k"}`, nil
}

func (f *flakyClient) Name() string { return "fake/flaky" }
func (f *flakyClient) Close() error { return nil }

func TestWithRetry_RecoversFromTransientError(t *testing.T) {
	inner := &flakyClient{failures: 2, err: errors.New("503 service unavailable")}
	client := WithRetry(inner, 2, time.Millisecond)

	out, err := client.Complete(t.Context(), Request{User: "300k"})
	require.NoError(t, err)
	assert.Equal(t, `{"Price": "300k"}`, out)
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, "fake/flaky", client.Name())
}

func TestWithRetry_GivesUp(t *testing.T) {
	inner := &flakyClient{failures: 5, err: errors.New("boom")}
	client := WithRetry(inner, 1, time.Millisecond)

	_, err := client.Complete(t.Context(), Request{User: "x"})
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, 2, inner.calls)
}

func TestWithRetry_DoesNotRetryDeadline(t *testing.T) {
	inner := &flakyClient{failures: 5, err: context.DeadlineExceeded}
	client := WithRetry(inner, 3, time.Millisecond)

	_, err := client.Complete(t.Context(), Request{User: "x"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, inner.calls)
}

func TestWithRetry_ZeroRetriesReturnsInner(t *testing.T) {
	inner := &flakyClient{}
	assert.Same(t, Client(inner), WithRetry(inner, 0, time.Millisecond))
}
