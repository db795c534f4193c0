package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/flemzord/reagent/internal/provider"
)

// maxResponseSize is the maximum response body size (10 MB).
// Protects against OOM from malformed or huge responses.
const maxResponseSize = 10 * 1024 * 1024

// chatRequest is the OpenAI Chat Completions request body.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the OpenAI Chat Completions response body.
type chatResponse struct {
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// apiError is the OpenAI error envelope.
type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// errAuth indicates invalid credentials. Not retryable.
var errAuth = errors.New("openai: authentication failed")

// zeroTemperature makes the reasoning loop deterministic unless the
// operator overrides it.
var zeroTemperature = new(float64)

// Complete sends the prompt as a single user message and returns the
// model's completion.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	temperature := zeroTemperature
	if req.Temperature != nil {
		temperature = req.Temperature
	} else if p.config.Temperature != nil {
		temperature = p.config.Temperature
	}

	maxTokens := p.config.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	cr := chatRequest{
		Model:       p.config.Model,
		Messages:    []message{{Role: "user", Content: req.Prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Stop:        req.Stop,
	}

	body, statusCode, err := p.doPost(ctx, "/chat/completions", cr)
	if err != nil {
		return provider.CompletionResponse{}, err
	}
	if httpErr := mapHTTPError(statusCode, body); httpErr != nil {
		return provider.CompletionResponse{}, httpErr
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return provider.CompletionResponse{}, fmt.Errorf("openai: unmarshal response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return provider.CompletionResponse{}, errors.New("openai: response has no choices")
	}

	choice := resp.Choices[0]
	return provider.CompletionResponse{
		Text:         choice.Message.Content,
		FinishReason: provider.FinishReason(choice.FinishReason),
		Usage: provider.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// doPost sends an authenticated POST request and returns the response
// body and status code. The body is limited to maxResponseSize bytes.
func (p *Provider) doPost(ctx context.Context, path string, payload any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("openai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("openai: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, 0, mapConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("openai: read response: %w", err)
	}
	return data, resp.StatusCode, nil
}

// mapHTTPError maps an HTTP status code and response body to a provider
// sentinel error. Returns nil for 2xx status codes.
func mapHTTPError(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var msg string
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
	} else {
		msg = string(body)
	}

	switch {
	case statusCode == 429:
		return fmt.Errorf("%w: %s", provider.ErrRateLimit, msg)
	case statusCode == 401 || statusCode == 403:
		return fmt.Errorf("%w: %s", errAuth, msg)
	case statusCode == 400 && strings.Contains(strings.ToLower(msg), "context_length"):
		return fmt.Errorf("%w: %s", provider.ErrContextLength, msg)
	case statusCode >= 500:
		return fmt.Errorf("%w: %s", provider.ErrProviderDown, msg)
	default:
		return fmt.Errorf("openai: HTTP %d: %s", statusCode, msg)
	}
}

// mapConnectionError maps network-level errors to provider sentinel errors.
// Context errors pass through unchanged.
func mapConnectionError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", provider.ErrProviderDown, err)
	}
	return fmt.Errorf("openai: %w", err)
}
