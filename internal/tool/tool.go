// Package tool defines the tool capability consumed by the agent loop and
// an ordered registry for looking tools up by name. Tools are the only way
// the agent acts on the outside world.
package tool

import "context"

// Tool is the interface every reagent tool implements.
//
// Invoke should encode ordinary failures (a search with no results, an
// upstream 500) in the returned observation text rather than the error,
// so the agent can keep reasoning about them. A non-nil error is reserved
// for failures the tool author considers unrecoverable.
type Tool interface {
	// Name returns the unique identifier for this tool, exactly as the
	// model must write it after "Action:".
	Name() string

	// Description returns a human-readable description shown to the model
	// in the tool catalog.
	Description() string

	// Invoke runs the tool with the given input and returns the
	// observation text.
	Invoke(ctx context.Context, input string) (string, error)
}
