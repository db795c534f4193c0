// Package provider defines the language-model capability consumed by the
// agent loop. Concrete implementations live in separate modules
// (e.g. provider.openai, provider.anthropic).
package provider

import "context"

// Provider is the interface for communicating with an LLM.
//
// Implementations must honor CompletionRequest.Stop: generation halts at
// the first occurrence of any listed sequence and that sequence is
// excluded from the returned text. The agent loop relies on this to keep
// the model from fabricating its own Observation lines.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// ModelName returns the identifier of the underlying model.
	ModelName() string
}
