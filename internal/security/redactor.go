// Package security provides log redaction for reagent so API keys and
// other secrets never reach log output.
package security

import (
	"regexp"
	"strings"
	"sync"
)

// RedactPlaceholder is the replacement string for redacted secrets.
const RedactPlaceholder = "***REDACTED***"

// Redactor replaces secret values in strings with a redaction placeholder.
// It supports both regex pattern matching (for known API key formats) and
// literal value matching (for credentials loaded from configuration).
// All methods are safe for concurrent use.
type Redactor struct {
	mu       sync.RWMutex
	patterns []*regexp.Regexp
	literals []string
}

// NewRedactor creates a Redactor pre-loaded with default patterns for common
// API key formats (OpenAI, Anthropic, Bearer tokens).
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: DefaultPatterns(),
	}
}

// AddPattern adds a compiled regex pattern to the redactor.
func (r *Redactor) AddPattern(pattern *regexp.Regexp) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = append(r.patterns, pattern)
}

// AddLiteral adds a literal secret value that should be redacted on sight.
// Empty strings are ignored.
func (r *Redactor) AddLiteral(secret string) {
	if secret == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.literals = append(r.literals, secret)
}

// Redact replaces all known secret patterns and literal values in s
// with RedactPlaceholder.
func (r *Redactor) Redact(s string) string {
	if s == "" {
		return s
	}

	r.mu.RLock()
	patterns := r.patterns
	literals := r.literals
	r.mu.RUnlock()

	// Apply regex patterns first.
	for _, p := range patterns {
		s = p.ReplaceAllString(s, RedactPlaceholder)
	}

	// Apply literal replacements.
	for _, lit := range literals {
		if strings.Contains(s, lit) {
			s = strings.ReplaceAll(s, lit, RedactPlaceholder)
		}
	}

	return s
}

// DefaultPatterns returns compiled regex patterns for common API key formats.
func DefaultPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		// Anthropic: sk-ant-... (at least 20 chars after prefix).
		// Must run before the generic OpenAI pattern so the full key
		// is consumed in one replacement.
		regexp.MustCompile(`sk-ant-[a-zA-Z0-9\-]{20,}`),
		// OpenAI: sk-... (at least 20 chars after prefix)
		regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),
		// Bearer tokens in header dumps
		regexp.MustCompile(`Bearer [a-zA-Z0-9\-._~+/]{16,}`),
	}
}
