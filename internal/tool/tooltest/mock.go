// Package tooltest provides a configurable mock tool for tests.
package tooltest

import (
	"context"
	"sync"

	"github.com/flemzord/reagent/internal/tool"
)

// Mock is a scripted tool. If Fn is set it is called; otherwise Output
// and Err are returned as-is. Inputs records every invocation.
type Mock struct {
	ToolName    string
	ToolDesc    string
	Output      string
	Err         error
	Fn          func(ctx context.Context, input string) (string, error)

	mu     sync.Mutex
	Inputs []string
}

// Compile-time check.
var _ tool.Tool = (*Mock)(nil)

// Name implements tool.Tool.
func (m *Mock) Name() string { return m.ToolName }

// Description implements tool.Tool.
func (m *Mock) Description() string {
	if m.ToolDesc == "" {
		return "mock tool for tests"
	}
	return m.ToolDesc
}

// Invoke implements tool.Tool.
func (m *Mock) Invoke(ctx context.Context, input string) (string, error) {
	m.mu.Lock()
	m.Inputs = append(m.Inputs, input)
	m.mu.Unlock()

	if m.Fn != nil {
		return m.Fn(ctx, input)
	}
	return m.Output, m.Err
}

// Calls returns how many times Invoke was called.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inputs)
}
