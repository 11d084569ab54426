package completion

import (
	"context"
	"errors"
	"time"

	"github.com/explainr/explainr/internal/prompt"
	"github.com/explainr/explainr/internal/reliability"
)

// DefaultMaxRetries bounds completion attempts per request.
const DefaultMaxRetries = 3

// Retrier wraps a Client with bounded retries. Rate-limit failures back off
// exponentially starting at BaseDelay; transient failures wait FixedDelay.
// Non-retryable failures surface immediately.
type Retrier struct {
	Client     Client
	MaxRetries int
	BaseDelay  time.Duration
	FixedDelay time.Duration
	MaxDelay   time.Duration
}

func NewRetrier(client Client, maxRetries int) *Retrier {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Retrier{
		Client:     client,
		MaxRetries: maxRetries,
		BaseDelay:  time.Second,
		FixedDelay: time.Second,
		MaxDelay:   30 * time.Second,
	}
}

func (r *Retrier) Complete(ctx context.Context, msgs []prompt.Message) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.MaxRetries; attempt++ {
		text, err := r.Client.Complete(ctx, msgs)
		if err == nil {
			return text, nil
		}
		lastErr = err

		var failure *Failure
		if !errors.As(err, &failure) || !failure.Retryable() {
			return "", err
		}
		if attempt == r.MaxRetries-1 {
			break
		}

		delay := r.FixedDelay
		if failure.Kind == KindRateLimited {
			delay = reliability.ExponentialBackoff(attempt, r.BaseDelay, r.MaxDelay)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return "", lastErr
}
