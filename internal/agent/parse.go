package agent

import (
	"regexp"
	"strings"
)

// actionPattern matches the Action/Action-Input shape over the whole
// output with "." matching newlines. The tool name is captured lazily so
// an optional closing bracket is not swallowed; the input is captured
// greedily to end-of-string.
var actionPattern = regexp.MustCompile(`(?s)Action: \[?(.*?)\]?\n*Action Input:\s*(.*)`)

// parseDecision turns raw model output into a Decision.
//
// If the output contains "Final Answer:" anywhere, the text after the
// last occurrence wins — the marker can legitimately appear earlier when
// the model echoes a tool description. Otherwise the Action/Action-Input
// shape is matched; anything else is a *ParseError.
func parseDecision(raw string) (Decision, error) {
	if strings.Contains(raw, finalAnswerMarker) {
		parts := strings.Split(raw, finalAnswerMarker)
		return FinalAnswer{Text: strings.TrimSpace(parts[len(parts)-1])}, nil
	}

	m := actionPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, &ParseError{Raw: raw}
	}

	return ToolInvocation{
		Tool:  strings.TrimSpace(m[1]),
		Input: stripQuotes(strings.Trim(m[2], " ")),
	}, nil
}

// stripQuotes removes at most one leading and one trailing double-quote
// character. This is deliberately not balanced-pair aware: a single
// unmatched quote at either end is still removed.
func stripQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}
