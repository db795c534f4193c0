package tool

import (
	"fmt"
	"strings"
	"sync"
)

// Registry holds registered tools and preserves registration order.
//
// Order matters: the catalog rendered into the prompt must list tools in
// the order the operator configured them, so the registry keeps a slice
// alongside the lookup map. It is instance-based (not global) for better
// testability.
type Registry struct {
	mu      sync.RWMutex
	ordered []Tool
	byName  map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Tool),
	}
}

// Register adds a tool to the registry.
// It returns ErrEmptyToolName if the tool's name is blank and
// ErrDuplicateTool if a tool with the same name is already registered.
func (r *Registry) Register(t Tool) error {
	name := strings.TrimSpace(t.Name())
	if name == "" {
		return ErrEmptyToolName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}

	r.byName[name] = t
	r.ordered = append(r.ordered, t)
	return nil
}

// Get returns the tool with the given name, or ErrToolNotFound.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return t, nil
}

// All returns the registered tools in registration order.
func (r *Registry) All() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Names returns all registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ordered))
	for _, t := range r.ordered {
		names = append(names, t.Name())
	}
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}
