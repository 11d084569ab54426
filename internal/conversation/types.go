package conversation

import (
	"context"
	"time"
)

// Exchange is one answered follow-up question within a conversation.
// Exchanges are append-only; they are never edited or reordered.
type Exchange struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// Store keeps the ordered follow-up log for each (session, topic) pair.
// Implementations must preserve append order and return exchanges in
// chronological order.
type Store interface {
	Get(ctx context.Context, sessionID, topic string) ([]Exchange, error)
	Append(ctx context.Context, sessionID, topic string, ex Exchange) error
	Clear(ctx context.Context, sessionID, topic string) error
	ClearAll(ctx context.Context, sessionID string) error
	Close() error
}
