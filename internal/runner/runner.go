// Package runner implements the agent.react module: it assembles the
// provider chain and the ordered tool catalog from the modules the
// operator configured, and exposes one entry point for running queries.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flemzord/reagent/internal/agent"
	"github.com/flemzord/reagent/internal/core"
	"github.com/flemzord/reagent/internal/provider"
	"github.com/flemzord/reagent/internal/tool"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Runner{})
}

// ServiceName is the key under which the runner registers itself.
const ServiceName = "agent.runner"

// ErrToolNotInCatalog is returned when a request names a tool the
// runner was not configured with.
var ErrToolNotInCatalog = errors.New("runner: tool not in catalog")

// Compile-time interface guards.
var (
	_ core.Module       = (*Runner)(nil)
	_ core.Configurable = (*Runner)(nil)
	_ core.Provisioner  = (*Runner)(nil)
	_ core.Validator    = (*Runner)(nil)
	_ core.Starter      = (*Runner)(nil)
)

// Runner is the agent.react module. Providers and tools are resolved
// lazily at Start(), after every module has been provisioned.
type Runner struct {
	config Config
	appCtx *core.AppContext
	logger *slog.Logger

	chain    *provider.Chain
	registry *tool.Registry
}

// RunRequest is one query submitted to the runner.
type RunRequest struct {
	// Question is the user's natural-language question.
	Question string

	// MaxIterations overrides the configured budget when positive.
	MaxIterations int

	// Tools optionally restricts the run to a subset of the catalog,
	// by tool name. Nil means the full catalog.
	Tools []string

	// Observer, when set, receives each step as it is recorded.
	Observer agent.Observer
}

// ModuleInfo implements core.Module.
func (r *Runner) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "agent.react",
		New: func() core.Module { return &Runner{} },
	}
}

// Configure implements core.Configurable.
func (r *Runner) Configure(node *yaml.Node) error {
	if err := node.Decode(&r.config); err != nil {
		return fmt.Errorf("runner: decode config: %w", err)
	}
	r.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (r *Runner) Provision(ctx *core.AppContext) error {
	r.appCtx = ctx
	r.logger = ctx.Logger
	ctx.RegisterService(ServiceName, r)
	return nil
}

// Validate implements core.Validator.
func (r *Runner) Validate() error {
	if len(r.config.Providers) == 0 {
		return errors.New("runner: at least one provider is required")
	}
	if r.config.MaxIterations <= 0 {
		return errors.New("runner: max_iterations must be positive")
	}
	return nil
}

// Start implements core.Starter. It resolves the configured provider and
// tool services, which other modules registered during Provision.
func (r *Runner) Start() error {
	entries := make([]provider.ChainEntry, 0, len(r.config.Providers))
	for _, name := range r.config.Providers {
		svc, ok := r.appCtx.Service("provider." + name)
		if !ok {
			return fmt.Errorf("runner: provider %q is not loaded", name)
		}
		p, ok := svc.(provider.Provider)
		if !ok {
			return fmt.Errorf("runner: service provider.%s is not a provider", name)
		}
		entries = append(entries, provider.ChainEntry{Name: name, Provider: p})
	}

	chain, err := provider.NewChain(entries)
	if err != nil {
		return fmt.Errorf("runner: building provider chain: %w", err)
	}
	r.chain = chain

	registry := tool.NewRegistry()
	for _, name := range r.config.Tools {
		svc, ok := r.appCtx.Service("tool." + name)
		if !ok {
			return fmt.Errorf("runner: tool %q is not loaded", name)
		}
		t, ok := svc.(tool.Tool)
		if !ok {
			return fmt.Errorf("runner: service tool.%s is not a tool", name)
		}
		if err := registry.Register(t); err != nil {
			return fmt.Errorf("runner: registering tool %q: %w", name, err)
		}
	}
	r.registry = registry

	r.logger.Info("agent runner ready",
		"providers", r.config.Providers,
		"tools", registry.Names(),
		"max_iterations", r.config.MaxIterations,
	)
	return nil
}

// Run executes one agent query. Each call builds a fresh agent over the
// shared (read-only) chain and catalog, so concurrent runs never share
// trace or transcript state.
func (r *Runner) Run(ctx context.Context, req RunRequest) (agent.Response, time.Duration, error) {
	tools, err := r.selectTools(req.Tools)
	if err != nil {
		return agent.Response{}, 0, err
	}

	maxIter := r.config.MaxIterations
	if req.MaxIterations > 0 {
		maxIter = req.MaxIterations
	}

	a, err := agent.New(r.chain, tools, agent.Config{
		MaxIterations: maxIter,
		Logger:        r.logger,
	})
	if err != nil {
		return agent.Response{}, 0, fmt.Errorf("runner: %w", err)
	}

	start := time.Now()
	resp, err := a.RunObserved(ctx, req.Question, req.Observer)
	return resp, time.Since(start), err
}

// Tools returns the full catalog in configured order.
func (r *Runner) Tools() []tool.Tool {
	return r.registry.All()
}

// Chain returns the provider chain for health reporting.
func (r *Runner) Chain() *provider.Chain {
	return r.chain
}

// selectTools returns the catalog filtered to the requested names,
// preserving catalog order. Unknown names are an error.
func (r *Runner) selectTools(names []string) ([]tool.Tool, error) {
	all := r.registry.All()
	if len(names) == 0 {
		return all, nil
	}

	requested := make(map[string]bool, len(names))
	for _, n := range names {
		requested[n] = true
	}

	var subset []tool.Tool
	for _, t := range all {
		if requested[t.Name()] {
			subset = append(subset, t)
			delete(requested, t.Name())
		}
	}
	for n := range requested {
		return nil, fmt.Errorf("%w: %q", ErrToolNotInCatalog, n)
	}
	return subset, nil
}
