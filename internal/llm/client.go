package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// Summarizer is the capability the insight layer needs from the external
// model service. Implementations return the raw structured text response.
type Summarizer interface {
	Summarize(ctx context.Context, system, user string) (string, error)
}

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewClient builds a client for the given endpoint. baseURL may be empty for
// the default OpenAI endpoint; any OpenAI-compatible gateway works.
func NewClient(apiKey, baseURL, model string, maxTokens int) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Summarize sends one chat completion request and returns the response text.
// Callers own retry policy and per-attempt timeouts via ctx.
func (c *Client) Summarize(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

// IsAuth reports whether the error is an authentication/authorization
// failure. These are never retried.
func IsAuth(err error) bool {
	switch status, ok := httpStatus(err); {
	case !ok:
		return false
	default:
		return status == http.StatusUnauthorized || status == http.StatusForbidden
	}
}

// IsTransient reports whether the error is worth retrying: rate limits,
// server-side failures, timeouts, and network errors.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if IsAuth(err) {
		return false
	}
	if status, ok := httpStatus(err); ok {
		return status == http.StatusRequestTimeout ||
			status == http.StatusTooManyRequests ||
			status >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

func httpStatus(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}
