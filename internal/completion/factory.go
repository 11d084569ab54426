package completion

import "strings"

// NewClient creates the OpenAI client when an API key is configured,
// otherwise a deterministic mock so the service stays usable locally.
func NewClient(cfg OpenAIConfig) Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return NewMockClient()
	}
	return NewOpenAIClient(cfg)
}
