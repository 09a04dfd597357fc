// Package llm talks to the OpenRouter chat-completions API for the two
// narrow jobs the engine delegates: scoring an event's failure
// probability and producing report prose. Every call is a single
// attempt with a bounded timeout, and every caller has a deterministic
// fallback, so the numeric pipeline never depends on the network.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	// DefaultModel is the chat model used unless overridden.
	DefaultModel = "openai/gpt-4o-mini"

	// DefaultBaseURL is the OpenRouter chat-completions endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

	// requestTimeout bounds each collaborator call. One attempt, no
	// retry; on expiry the caller falls back.
	requestTimeout = 30 * time.Second

	// temperature keeps scoring responses consistent across runs.
	temperature = 0.3
)

// Client is a thin OpenRouter chat client.
type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	logger     zerolog.Logger
}

// NewClient builds a chat client. Model and baseURL fall back to the
// defaults when empty.
func NewClient(apiKey, model, baseURL string, logger zerolog.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		logger:     logger.With().Str("component", "llm").Logger(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat sends one system+user exchange and returns the raw completion
// text. Timeouts, transport failures, non-2xx statuses, and empty
// completions all surface as errors for the caller's fallback path.
func (c *Client) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat completions: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error().Err(cerr).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("chat completions returned %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading chat response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat response contained no completion")
	}
	return parsed.Choices[0].Message.Content, nil
}
