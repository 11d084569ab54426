package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/explainr/explainr/internal/prompt"
)

// MockClient provides deterministic local replies when no API key is set.
type MockClient struct{}

func NewMockClient() *MockClient { return &MockClient{} }

func (c *MockClient) Complete(ctx context.Context, msgs []prompt.Message) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return buildMockReply(msgs), nil
}

func buildMockReply(msgs []prompt.Message) string {
	var user string
	for _, m := range msgs {
		if m.Role == prompt.RoleUser {
			user = m.Content
		}
	}
	user = strings.TrimSpace(user)

	switch {
	case strings.Contains(user, "follow-up questions"):
		return "What else should I know?\nHow does this work in practice?\nWhere did this come from?"
	case strings.Contains(user, "topics closely related"):
		return "History of science\nChemistry\nBiology\nPhysics\nMathematics"
	case strings.Contains(user, "New question:"):
		return "That is a good follow-up. In short: it depends on the details above."
	default:
		first := user
		if idx := strings.IndexByte(first, '\n'); idx > 0 {
			first = first[:idx]
		}
		return fmt.Sprintf("Level 1 (Age 5): pretend answer.\n\nLevel 2 (Age 15): pretend answer with detail.\n\nLevel 3 (Adult): pretend answer in full, for: %s", first)
	}
}
