package agent

import (
	"errors"
	"fmt"
)

// Sentinel errors for fatal run failures. Both indicate a defect in the
// prompt or the tool catalog, not a transient runtime fault, so the loop
// never retries them.
var (
	// ErrNotParsable means the model output matched neither the
	// Final-Answer shape nor the Action/Action-Input shape.
	ErrNotParsable = errors.New("agent: model output not parsable")

	// ErrUnknownTool means the parsed tool name is not in the catalog.
	ErrUnknownTool = errors.New("agent: unknown tool")
)

// ParseError carries the offending raw model output for diagnosis.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("agent: model output not parsable for next tool use: `%s`", e.Raw)
}

// Unwrap lets errors.Is match ErrNotParsable.
func (e *ParseError) Unwrap() error { return ErrNotParsable }

// UnknownToolError names the tool the model asked for but the catalog
// does not contain.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("agent: unknown tool: %q", e.Name)
}

// Unwrap lets errors.Is match ErrUnknownTool.
func (e *UnknownToolError) Unwrap() error { return ErrUnknownTool }
