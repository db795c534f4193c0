package runner

import "github.com/flemzord/reagent/internal/agent"

// Config is the agent.react module configuration.
type Config struct {
	// Providers lists provider module names in preference order. The
	// first entry is the primary; later entries are failover targets.
	// Each name must match a loaded provider.<name> module.
	Providers []string `yaml:"providers"`

	// Tools lists tool module names in catalog order. Each name must
	// match a loaded tool.<name> module.
	Tools []string `yaml:"tools"`

	// MaxIterations bounds the reasoning loop per query.
	MaxIterations int `yaml:"max_iterations"`
}

func (c *Config) defaults() {
	if c.MaxIterations == 0 {
		c.MaxIterations = agent.DefaultMaxIterations
	}
}
