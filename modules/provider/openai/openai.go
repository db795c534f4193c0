// Package openai implements the provider.openai module over the OpenAI
// Chat Completions API.
package openai

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/flemzord/reagent/internal/core"
	"github.com/flemzord/reagent/internal/provider"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Provider{})
}

// Compile-time interface guards.
var (
	_ provider.Provider = (*Provider)(nil)
	_ core.Module       = (*Provider)(nil)
	_ core.Configurable = (*Provider)(nil)
	_ core.Provisioner  = (*Provider)(nil)
	_ core.Validator    = (*Provider)(nil)
)

// Provider implements the OpenAI Chat Completions API as a provider module.
type Provider struct {
	config Config
	logger *slog.Logger
	client *http.Client
}

// ModuleInfo implements core.Module.
func (p *Provider) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "provider.openai",
		New: func() core.Module { return &Provider{} },
	}
}

// Configure implements core.Configurable.
func (p *Provider) Configure(node *yaml.Node) error {
	if err := node.Decode(&p.config); err != nil {
		return err
	}
	p.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (p *Provider) Provision(ctx *core.AppContext) error {
	p.logger = ctx.Logger
	p.client = &http.Client{
		Timeout: p.config.parsedTimeout(),
	}

	ctx.RegisterService("provider.openai", p)
	return nil
}

// Validate implements core.Validator.
func (p *Provider) Validate() error {
	if p.config.APIKey == "" {
		return errors.New("provider.openai: api_key is required")
	}
	if p.config.Model == "" {
		return errors.New("provider.openai: model is required")
	}
	return p.config.validateTimeout()
}

// ModelName implements provider.Provider.
func (p *Provider) ModelName() string {
	return p.config.Model
}
