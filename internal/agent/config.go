package agent

import (
	"log/slog"
	"time"
)

// Default values for Config.
const (
	// DefaultMaxIterations bounds a run when the caller does not specify
	// its own budget.
	DefaultMaxIterations = 15
)

// ExhaustedAnswer is returned when the iteration budget runs out without
// a final answer. Exhaustion is a normal termination, not an error.
const ExhaustedAnswer = "I couldn't find a definitive answer within the allowed number of steps."

// Config controls one agent. It is immutable for the duration of a run
// and may be shared across concurrent runs: every run owns its own trace
// and transcript.
type Config struct {
	// Template is the prompt template. Empty means DefaultTemplate.
	Template string

	// MaxIterations is the iteration budget. Zero or negative means
	// DefaultMaxIterations.
	MaxIterations int

	// Stop are the stop sequences passed to the provider. Nil means
	// DefaultStopSequences().
	Stop []string

	// Now supplies the date injected into the prompt. Nil means time.Now.
	// Injected so renders are deterministic in tests and within a run.
	Now func() time.Time

	// Logger receives per-step debug output. Nil means slog.Default().
	Logger *slog.Logger
}

// withDefaults returns a copy with zero fields replaced by defaults.
func (c Config) withDefaults() Config {
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.Stop == nil {
		c.Stop = DefaultStopSequences()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
