package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ChainEntry pairs a provider with the name it was configured under.
type ChainEntry struct {
	Name     string
	Provider Provider
}

// Status is a point-in-time view of one chain entry, used by the
// gateway's health and status endpoints.
type Status struct {
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	Available bool      `json:"available"`
	LastError string    `json:"last_error,omitempty"`
	LastUsed  time.Time `json:"last_used,omitzero"`
}

// Chain is an ordered list of providers with failover. A request is sent
// to the first provider; on a retryable error (rate limit, provider down)
// the next provider is tried. Non-retryable errors propagate immediately.
//
// Chain itself implements Provider, so the agent loop does not know
// whether it is talking to one model or a failover list.
type Chain struct {
	entries []ChainEntry

	mu     sync.Mutex
	status []Status
}

// Compile-time check.
var _ Provider = (*Chain)(nil)

// NewChain creates a Chain from the given ordered entries.
func NewChain(entries []ChainEntry) (*Chain, error) {
	if len(entries) == 0 {
		return nil, ErrNoProvider
	}
	status := make([]Status, len(entries))
	for i, e := range entries {
		if e.Provider == nil {
			return nil, fmt.Errorf("provider chain: entry %q has nil provider", e.Name)
		}
		status[i] = Status{
			Name:      e.Name,
			Model:     e.Provider.ModelName(),
			Available: true,
		}
	}
	return &Chain{entries: entries, status: status}, nil
}

// Complete tries each provider in order until one succeeds or a
// non-retryable error occurs.
func (c *Chain) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	var errs []error

	for i, e := range c.entries {
		resp, err := e.Provider.Complete(ctx, req)
		if err == nil {
			c.record(i, nil)
			return resp, nil
		}

		c.record(i, err)

		if !IsRetryable(err) {
			return CompletionResponse{}, fmt.Errorf("provider %s: %w", e.Name, err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", e.Name, err))
	}

	return CompletionResponse{}, fmt.Errorf("%w: %w", ErrAllProviders, errors.Join(errs...))
}

// ModelName returns the model of the first (primary) provider.
func (c *Chain) ModelName() string {
	return c.entries[0].Provider.ModelName()
}

// HealthReport returns the status of every entry in chain order.
func (c *Chain) HealthReport() []Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Status, len(c.status))
	copy(out, c.status)
	return out
}

func (c *Chain) record(i int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status[i].LastUsed = time.Now()
	if err != nil {
		c.status[i].Available = false
		c.status[i].LastError = err.Error()
		return
	}
	c.status[i].Available = true
	c.status[i].LastError = ""
}
