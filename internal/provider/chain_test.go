package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/flemzord/reagent/internal/provider"
	"github.com/flemzord/reagent/internal/provider/providertest"
)

func TestNewChain_Empty(t *testing.T) {
	t.Parallel()

	if _, err := provider.NewChain(nil); !errors.Is(err, provider.ErrNoProvider) {
		t.Fatalf("err = %v, want ErrNoProvider", err)
	}
}

func TestChain_PrimarySucceeds(t *testing.T) {
	t.Parallel()

	primary := &providertest.Mock{
		Responses: []provider.CompletionResponse{{Text: "from primary"}},
	}
	fallback := &providertest.Mock{}

	chain, err := provider.NewChain([]provider.ChainEntry{
		{Name: "openai", Provider: primary},
		{Name: "anthropic", Provider: fallback},
	})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	resp, err := chain.Complete(context.Background(), provider.CompletionRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "from primary" {
		t.Errorf("Text = %q, want \"from primary\"", resp.Text)
	}
	if fallback.Calls() != 0 {
		t.Errorf("fallback was called %d times, want 0", fallback.Calls())
	}
}

func TestChain_FailoverOnRetryable(t *testing.T) {
	t.Parallel()

	primary := &providertest.Mock{Errs: []error{provider.ErrRateLimit}}
	fallback := &providertest.Mock{
		Responses: []provider.CompletionResponse{{Text: "from fallback"}},
	}

	chain, err := provider.NewChain([]provider.ChainEntry{
		{Name: "openai", Provider: primary},
		{Name: "anthropic", Provider: fallback},
	})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	resp, err := chain.Complete(context.Background(), provider.CompletionRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "from fallback" {
		t.Errorf("Text = %q, want \"from fallback\"", resp.Text)
	}

	report := chain.HealthReport()
	if report[0].Available {
		t.Error("primary should be marked unavailable after rate limit")
	}
	if !report[1].Available {
		t.Error("fallback should be marked available")
	}
}

func TestChain_NonRetryableStops(t *testing.T) {
	t.Parallel()

	fatal := errors.New("invalid api key")
	primary := &providertest.Mock{Errs: []error{fatal}}
	fallback := &providertest.Mock{}

	chain, err := provider.NewChain([]provider.ChainEntry{
		{Name: "openai", Provider: primary},
		{Name: "anthropic", Provider: fallback},
	})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	_, err = chain.Complete(context.Background(), provider.CompletionRequest{Prompt: "hi"})
	if !errors.Is(err, fatal) {
		t.Fatalf("err = %v, want wrapped %v", err, fatal)
	}
	if fallback.Calls() != 0 {
		t.Errorf("fallback was called on a non-retryable error")
	}
}

func TestChain_AllFail(t *testing.T) {
	t.Parallel()

	chain, err := provider.NewChain([]provider.ChainEntry{
		{Name: "openai", Provider: &providertest.Mock{Errs: []error{provider.ErrRateLimit}}},
		{Name: "anthropic", Provider: &providertest.Mock{Errs: []error{provider.ErrProviderDown}}},
	})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	_, err = chain.Complete(context.Background(), provider.CompletionRequest{Prompt: "hi"})
	if !errors.Is(err, provider.ErrAllProviders) {
		t.Fatalf("err = %v, want ErrAllProviders", err)
	}
	if !errors.Is(err, provider.ErrRateLimit) || !errors.Is(err, provider.ErrProviderDown) {
		t.Errorf("joined error should carry both causes, got %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	if !provider.IsRetryable(provider.ErrRateLimit) {
		t.Error("ErrRateLimit should be retryable")
	}
	if !provider.IsRetryable(provider.ErrProviderDown) {
		t.Error("ErrProviderDown should be retryable")
	}
	if provider.IsRetryable(provider.ErrContextLength) {
		t.Error("ErrContextLength should not be retryable")
	}
	if provider.IsRetryable(errors.New("other")) {
		t.Error("arbitrary errors should not be retryable")
	}
}
