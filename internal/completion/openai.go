package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/explainr/explainr/internal/prompt"
	"github.com/explainr/explainr/internal/reliability"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultModel     = "gpt-3.5-turbo"
	defaultMaxTokens = 1500
)

// OpenAIConfig controls the chat-completions client.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// OpenAIClient calls the OpenAI chat-completions endpoint.
type OpenAIClient struct {
	cfg    OpenAIConfig
	client *http.Client
}

func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OpenAIClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []prompt.Message `json:"messages"`
	MaxTokens   int              `json:"max_tokens"`
	Temperature float64          `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *OpenAIClient) Complete(ctx context.Context, msgs []prompt.Message) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", &Failure{Kind: KindUnconfigured, Detail: "missing API key"}
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    msgs,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", &Failure{Kind: KindInvalidRequest, Detail: fmt.Sprintf("marshal request: %v", err)}
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &Failure{Kind: KindInvalidRequest, Detail: fmt.Sprintf("create request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	res, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", &Failure{Kind: KindTransient, Detail: fmt.Sprintf("send request: %v", err)}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return "", &Failure{Kind: KindTransient, Detail: fmt.Sprintf("read response: %v", err)}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", classifyStatus(res.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &Failure{Kind: KindTransient, Detail: fmt.Sprintf("decode response: %v", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &Failure{Kind: KindTransient, Detail: "response carried no choices"}
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func classifyStatus(code int, body []byte) *Failure {
	detail := upstreamDetail(body)
	switch {
	case code == http.StatusTooManyRequests:
		return &Failure{Kind: KindRateLimited, Detail: detail}
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &Failure{Kind: KindUnconfigured, Detail: detail}
	case code == http.StatusBadRequest || code == http.StatusNotFound || code == http.StatusUnprocessableEntity:
		return &Failure{Kind: KindInvalidRequest, Detail: detail}
	case reliability.IsRetryableHTTPStatus(code):
		return &Failure{Kind: KindTransient, Detail: fmt.Sprintf("status %d: %s", code, detail)}
	default:
		return &Failure{Kind: KindInvalidRequest, Detail: fmt.Sprintf("status %d: %s", code, detail)}
	}
}

func upstreamDetail(body []byte) string {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		return parsed.Error.Message
	}
	return strings.TrimSpace(string(body))
}
