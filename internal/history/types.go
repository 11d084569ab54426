package history

import (
	"context"
	"time"
)

// Record is one logged explanation request.
type Record struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Topic     string    `json:"topic"`
	Style     string    `json:"style"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists and retrieves the explanation history log.
type Store interface {
	Save(ctx context.Context, record Record) error
	Recent(ctx context.Context, sessionID string, limit int) ([]Record, error)
	Close() error
}
