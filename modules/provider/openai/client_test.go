package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flemzord/reagent/internal/provider"
)

func testProvider(t *testing.T, handler http.Handler) (*Provider, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL}
	cfg.defaults()

	return &Provider{
		config: cfg,
		client: srv.Client(),
	}, srv
}

func TestCompleteSendsPromptAndStop(t *testing.T) {
	t.Parallel()

	var got chatRequest
	p, _ := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "Thought: hi"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))

	resp, err := p.Complete(context.Background(), provider.CompletionRequest{
		Prompt: "Answer the question.",
		Stop:   []string{"\nObservation:", "\n\tObservation:"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if resp.Text != "Thought: hi" {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("TotalTokens = %d, want 15", resp.Usage.TotalTokens)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "Answer the question." {
		t.Errorf("messages = %+v, want single user message with the prompt", got.Messages)
	}
	if len(got.Stop) != 2 {
		t.Errorf("stop = %v, want both stop sequences", got.Stop)
	}
	if got.Temperature == nil || *got.Temperature != 0 {
		t.Errorf("temperature = %v, want explicit 0", got.Temperature)
	}
}

func TestCompleteMapsRateLimit(t *testing.T) {
	t.Parallel()

	p, _ := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "slow down"}}`))
	}))

	_, err := p.Complete(context.Background(), provider.CompletionRequest{Prompt: "p"})
	if !errors.Is(err, provider.ErrRateLimit) {
		t.Errorf("error = %v, want ErrRateLimit", err)
	}
}

func TestCompleteMapsServerError(t *testing.T) {
	t.Parallel()

	p, _ := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := p.Complete(context.Background(), provider.CompletionRequest{Prompt: "p"})
	if !errors.Is(err, provider.ErrProviderDown) {
		t.Errorf("error = %v, want ErrProviderDown", err)
	}
}

func TestCompleteAuthFailureNotRetryable(t *testing.T) {
	t.Parallel()

	p, _ := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key"}}`))
	}))

	_, err := p.Complete(context.Background(), provider.CompletionRequest{Prompt: "p"})
	if err == nil {
		t.Fatal("Complete() error = nil, want auth error")
	}
	if provider.IsRetryable(err) {
		t.Errorf("auth error %v is retryable, want not retryable", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	t.Parallel()

	p, _ := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))

	_, err := p.Complete(context.Background(), provider.CompletionRequest{Prompt: "p"})
	if err == nil {
		t.Error("Complete() error = nil, want no-choices error")
	}
}
