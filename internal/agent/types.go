// Package agent implements the ReAct (Reason + Act) loop that answers a
// question through iterative model completions and tool invocations,
// speaking the Thought/Action/Action Input/Observation text protocol.
package agent

// Decision is what the model decided to do in one step: either emit a
// final answer or invoke a tool. It is a closed sum type so the loop can
// switch exhaustively and a tool can never be named "Final Answer" by
// accident.
type Decision interface {
	decision()
}

// FinalAnswer terminates the run with the given text.
type FinalAnswer struct {
	Text string
}

func (FinalAnswer) decision() {}

// ToolInvocation asks the loop to run the named tool with the given input.
type ToolInvocation struct {
	Tool  string
	Input string
}

func (ToolInvocation) decision() {}

// Step records one loop iteration: the raw model output, the decision
// parsed from it, and (for tool invocations) the observation the tool
// produced.
type Step struct {
	// Index is the 1-based iteration number.
	Index int

	// RawOutput is the model's completion, verbatim.
	RawOutput string

	// Decision is the parsed decision for this step.
	Decision Decision

	// Observation is the tool's output. Empty for final-answer steps.
	Observation string
}

// Trace is the ordered, append-only log of all steps in one run. It is
// the audit record surfaced to callers and rendered as "thinking" in UIs.
type Trace []Step

// StopReason describes why a run terminated.
type StopReason string

// StopReason constants for run termination.
const (
	// StopReasonAnswered means the model emitted a final answer.
	StopReasonAnswered StopReason = "answered"

	// StopReasonExhausted means the iteration budget ran out. This is a
	// normal termination, not an error.
	StopReasonExhausted StopReason = "exhausted"

	// StopReasonError means the run failed fatally (parse failure,
	// unknown tool, or a provider error).
	StopReasonError StopReason = "error"
)

// Response is the outcome of one run.
type Response struct {
	// Answer is the final answer text, or the exhaustion fallback.
	Answer string

	// Trace holds every step taken, including the terminal one. On a
	// fatal error it holds the steps completed before the failure.
	Trace Trace

	// Iterations is the number of loop iterations executed.
	Iterations int

	// StopReason tells the caller how the run ended.
	StopReason StopReason
}
