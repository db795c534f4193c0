// Package providertest provides a scripted mock provider for tests.
package providertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/flemzord/reagent/internal/provider"
)

// Mock returns pre-configured responses in sequence. It records every
// request it receives so tests can assert on prompts and stop sequences.
type Mock struct {
	mu        sync.Mutex
	Responses []provider.CompletionResponse
	Errs      []error
	Requests  []provider.CompletionRequest
	Model     string

	idx int
}

// Compile-time check.
var _ provider.Provider = (*Mock)(nil)

// Complete returns the next scripted response or error.
func (m *Mock) Complete(_ context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)

	i := m.idx
	m.idx++

	if i < len(m.Errs) && m.Errs[i] != nil {
		return provider.CompletionResponse{}, m.Errs[i]
	}
	if i >= len(m.Responses) {
		return provider.CompletionResponse{}, fmt.Errorf("providertest: no scripted response for call %d", i+1)
	}
	return m.Responses[i], nil
}

// ModelName implements provider.Provider.
func (m *Mock) ModelName() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// Calls returns how many times Complete was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
