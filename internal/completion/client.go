package completion

import (
	"context"
	"fmt"

	"github.com/explainr/explainr/internal/prompt"
)

// FailureKind classifies completion failures so callers can branch on the
// kind instead of sniffing message text.
type FailureKind string

const (
	KindRateLimited    FailureKind = "rate_limited"
	KindInvalidRequest FailureKind = "invalid_request"
	KindTransient      FailureKind = "transient"
	KindUnconfigured   FailureKind = "unconfigured"
)

// Failure is a classified completion error.
type Failure struct {
	Kind   FailureKind
	Detail string
}

func (f *Failure) Error() string {
	if f.Detail == "" {
		return fmt.Sprintf("completion failed: %s", f.Kind)
	}
	return fmt.Sprintf("completion failed (%s): %s", f.Kind, f.Detail)
}

// Retryable reports whether retrying the same request can help.
func (f *Failure) Retryable() bool {
	switch f.Kind {
	case KindRateLimited, KindTransient:
		return true
	default:
		return false
	}
}

// UserMessage renders the failure as a plain string safe to show to users.
func (f *Failure) UserMessage() string {
	switch f.Kind {
	case KindRateLimited:
		return "Service temporarily unavailable due to high demand. Please try again later."
	case KindInvalidRequest:
		return "Invalid request. Please check your input and try again."
	case KindUnconfigured:
		return "The explanation service is not configured. Please set the OpenAI API key."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

// Client produces a completion for a chat-style message sequence.
type Client interface {
	Complete(ctx context.Context, msgs []prompt.Message) (string, error)
}
