package completion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/explainr/explainr/internal/prompt"
)

type scriptedClient struct {
	calls   int
	replies []func() (string, error)
}

func (c *scriptedClient) Complete(_ context.Context, _ []prompt.Message) (string, error) {
	idx := c.calls
	c.calls++
	if idx >= len(c.replies) {
		idx = len(c.replies) - 1
	}
	return c.replies[idx]()
}

func fastRetrier(c Client, maxRetries int) *Retrier {
	r := NewRetrier(c, maxRetries)
	r.BaseDelay = time.Millisecond
	r.FixedDelay = time.Millisecond
	r.MaxDelay = 5 * time.Millisecond
	return r
}

func alwaysFail(kind FailureKind) func() (string, error) {
	return func() (string, error) { return "", &Failure{Kind: kind} }
}

func TestRetrierRateLimitedExhaustsExactlyMaxRetries(t *testing.T) {
	stub := &scriptedClient{replies: []func() (string, error){alwaysFail(KindRateLimited)}}
	r := fastRetrier(stub, 3)

	_, err := r.Complete(context.Background(), nil)
	if stub.calls != 3 {
		t.Fatalf("attempts = %d, want 3", stub.calls)
	}
	var failure *Failure
	if !errors.As(err, &failure) || failure.Kind != KindRateLimited {
		t.Fatalf("terminal error = %v, want rate_limited failure", err)
	}
	if failure.UserMessage() == "" {
		t.Fatalf("terminal failure must render a user message")
	}
}

func TestRetrierTransientThenSuccess(t *testing.T) {
	stub := &scriptedClient{replies: []func() (string, error){
		alwaysFail(KindTransient),
		func() (string, error) { return "recovered", nil },
	}}
	r := fastRetrier(stub, 3)

	text, err := r.Complete(context.Background(), nil)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "recovered" {
		t.Fatalf("text = %q, want %q", text, "recovered")
	}
	if stub.calls != 2 {
		t.Fatalf("attempts = %d, want 2", stub.calls)
	}
}

func TestRetrierInvalidRequestDoesNotRetry(t *testing.T) {
	stub := &scriptedClient{replies: []func() (string, error){alwaysFail(KindInvalidRequest)}}
	r := fastRetrier(stub, 3)

	_, err := r.Complete(context.Background(), nil)
	if stub.calls != 1 {
		t.Fatalf("attempts = %d, want 1", stub.calls)
	}
	var failure *Failure
	if !errors.As(err, &failure) || failure.Kind != KindInvalidRequest {
		t.Fatalf("error = %v, want invalid_request failure", err)
	}
}

func TestRetrierUnconfiguredDoesNotRetry(t *testing.T) {
	stub := &scriptedClient{replies: []func() (string, error){alwaysFail(KindUnconfigured)}}
	r := fastRetrier(stub, 3)

	_, err := r.Complete(context.Background(), nil)
	if stub.calls != 1 {
		t.Fatalf("attempts = %d, want 1", stub.calls)
	}
	var failure *Failure
	if !errors.As(err, &failure) || failure.Kind != KindUnconfigured {
		t.Fatalf("error = %v, want unconfigured failure", err)
	}
}

func TestRetrierHonorsContextCancellation(t *testing.T) {
	stub := &scriptedClient{replies: []func() (string, error){alwaysFail(KindRateLimited)}}
	r := NewRetrier(stub, 3)
	r.BaseDelay = time.Minute
	r.MaxDelay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := r.Complete(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if stub.calls != 1 {
		t.Fatalf("attempts = %d, want 1 before cancellation", stub.calls)
	}
}
