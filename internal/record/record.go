// Package record defines the agent-record model managed through the
// gateway's admin API: named agent presets pairing a model with a tool
// selection. Stores are pluggable; modules/record/sqlite provides the
// persistent implementation.
package record

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for record operations.
var (
	// ErrNotFound is returned when no record exists for the given ID.
	ErrNotFound = errors.New("record: agent not found")

	// ErrInvalid is returned when a record fails validation.
	ErrInvalid = errors.New("record: invalid agent")
)

// Record is one stored agent preset.
type Record struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Model       string    `json:"model"`
	Tools       []string  `json:"tools"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is the persistence contract for agent records.
type Store interface {
	Create(ctx context.Context, r Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, id string) error
}

// Validate checks a record against the configured model allowlist and
// tool catalog. An empty model allowlist accepts any model.
func Validate(r Record, allowedModels, availableTools []string) error {
	var errs []error

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, fmt.Errorf("%w: name is required", ErrInvalid))
	}
	if len(allowedModels) > 0 && !slices.Contains(allowedModels, r.Model) {
		errs = append(errs, fmt.Errorf("%w: model %q not in allowed list %v", ErrInvalid, r.Model, allowedModels))
	}
	for _, t := range r.Tools {
		if !slices.Contains(availableTools, t) {
			errs = append(errs, fmt.Errorf("%w: unknown tool %q", ErrInvalid, t))
		}
	}

	return errors.Join(errs...)
}

// NewID returns a random record identifier.
func NewID() string {
	return uuid.NewString()
}
