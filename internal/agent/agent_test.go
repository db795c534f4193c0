package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/flemzord/reagent/internal/provider"
	"github.com/flemzord/reagent/internal/provider/providertest"
	"github.com/flemzord/reagent/internal/tool"
	"github.com/flemzord/reagent/internal/tool/tooltest"
)

func fixedNow() time.Time {
	return time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)
}

func newTestAgent(t *testing.T, p provider.Provider, tools []tool.Tool, maxIter int) *Agent {
	t.Helper()
	a, err := New(p, tools, Config{MaxIterations: maxIter, Now: fixedNow})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestRun_ImmediateFinalAnswer(t *testing.T) {
	t.Parallel()

	p := &providertest.Mock{
		Responses: []provider.CompletionResponse{
			{Text: "Thought: easy\nFinal Answer: 42"},
		},
	}
	a := newTestAgent(t, p, nil, 5)

	resp, err := a.Run(context.Background(), "What is 6*7?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Answer != "42" {
		t.Errorf("Answer = %q, want \"42\"", resp.Answer)
	}
	if resp.StopReason != StopReasonAnswered {
		t.Errorf("StopReason = %q, want answered", resp.StopReason)
	}
	if resp.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", resp.Iterations)
	}
	if len(resp.Trace) != 1 {
		t.Fatalf("len(Trace) = %d, want 1", len(resp.Trace))
	}
	if p.Calls() != 1 {
		t.Errorf("provider called %d times, want 1 — loop must stop at the answer", p.Calls())
	}
}

func TestRun_ToolThenAnswer(t *testing.T) {
	t.Parallel()

	search := &tooltest.Mock{ToolName: "Search", Output: "Go is a language"}
	p := &providertest.Mock{
		Responses: []provider.CompletionResponse{
			{Text: "Thought: look it up\nAction: Search\nAction Input: \"what is go\""},
			{Text: "Thought: I now know the final answer\nFinal Answer: Go is a language"},
		},
	}
	a := newTestAgent(t, p, []tool.Tool{search}, 5)

	resp, err := a.Run(context.Background(), "What is Go?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Answer != "Go is a language" {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if resp.Iterations != 2 {
		t.Errorf("Iterations = %d, want 2", resp.Iterations)
	}

	// Quotes are stripped before the tool sees the input.
	if len(search.Inputs) != 1 || search.Inputs[0] != "what is go" {
		t.Errorf("tool inputs = %v, want [\"what is go\"]", search.Inputs)
	}

	// The first step's raw output and observation are fed back into the
	// second prompt, verbatim, followed by the Thought marker.
	second := p.Requests[1].Prompt
	wantEntry := "Thought: look it up\nAction: Search\nAction Input: \"what is go\"" +
		"\nObservation: Go is a language\nThought:"
	if !strings.Contains(second, wantEntry) {
		t.Errorf("second prompt missing transcript entry:\n%s", second)
	}

	// Trace records both steps in order.
	if len(resp.Trace) != 2 {
		t.Fatalf("len(Trace) = %d, want 2", len(resp.Trace))
	}
	if inv, ok := resp.Trace[0].Decision.(ToolInvocation); !ok || inv.Tool != "Search" {
		t.Errorf("Trace[0].Decision = %#v, want ToolInvocation{Search}", resp.Trace[0].Decision)
	}
	if resp.Trace[0].Observation != "Go is a language" {
		t.Errorf("Trace[0].Observation = %q", resp.Trace[0].Observation)
	}
	if _, ok := resp.Trace[1].Decision.(FinalAnswer); !ok {
		t.Errorf("Trace[1].Decision = %#v, want FinalAnswer", resp.Trace[1].Decision)
	}
}

func TestRun_StopSequencesPassed(t *testing.T) {
	t.Parallel()

	p := &providertest.Mock{
		Responses: []provider.CompletionResponse{{Text: "Final Answer: ok"}},
	}
	a := newTestAgent(t, p, nil, 1)

	if _, err := a.Run(context.Background(), "q"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	stop := p.Requests[0].Stop
	if len(stop) != 2 || stop[0] != "\nObservation:" || stop[1] != "\n\tObservation:" {
		t.Errorf("Stop = %q, want default observation stops", stop)
	}
}

func TestRun_UnknownToolIsFatal(t *testing.T) {
	t.Parallel()

	known := &tooltest.Mock{ToolName: "Search", Output: "result"}
	p := &providertest.Mock{
		Responses: []provider.CompletionResponse{
			{Text: "Action: Search\nAction Input: a"},
			{Text: "Action: Teleport\nAction Input: b"},
			{Text: "Final Answer: never reached"},
		},
	}
	a := newTestAgent(t, p, []tool.Tool{known}, 5)

	resp, err := a.Run(context.Background(), "q")
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("err = %v, want ErrUnknownTool", err)
	}

	var ute *UnknownToolError
	if !errors.As(err, &ute) || ute.Name != "Teleport" {
		t.Errorf("err = %v, want UnknownToolError{Teleport}", err)
	}

	// No further iterations after the failure.
	if p.Calls() != 2 {
		t.Errorf("provider called %d times, want 2", p.Calls())
	}

	// The trace-so-far stays inspectable.
	if len(resp.Trace) != 1 {
		t.Errorf("len(Trace) = %d, want 1 (the successful first step)", len(resp.Trace))
	}
	if resp.StopReason != StopReasonError {
		t.Errorf("StopReason = %q, want error", resp.StopReason)
	}
}

func TestRun_ParseFailureIsFatal(t *testing.T) {
	t.Parallel()

	p := &providertest.Mock{
		Responses: []provider.CompletionResponse{
			{Text: "no markers here at all"},
		},
	}
	a := newTestAgent(t, p, nil, 5)

	_, err := a.Run(context.Background(), "q")
	if !errors.Is(err, ErrNotParsable) {
		t.Fatalf("err = %v, want ErrNotParsable", err)
	}
	if p.Calls() != 1 {
		t.Errorf("provider called %d times, want 1", p.Calls())
	}
}

func TestRun_Exhausted(t *testing.T) {
	t.Parallel()

	search := &tooltest.Mock{ToolName: "Search", Output: "nothing useful"}
	p := &providertest.Mock{
		Responses: []provider.CompletionResponse{
			{Text: "Action: Search\nAction Input: anything"},
		},
	}
	a := newTestAgent(t, p, []tool.Tool{search}, 1)

	resp, err := a.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("exhaustion must not be an error, got %v", err)
	}
	if resp.Answer != ExhaustedAnswer {
		t.Errorf("Answer = %q, want the fallback", resp.Answer)
	}
	if resp.StopReason != StopReasonExhausted {
		t.Errorf("StopReason = %q, want exhausted", resp.StopReason)
	}
	if len(resp.Trace) != 1 {
		t.Errorf("len(Trace) = %d, want 1", len(resp.Trace))
	}
}

func TestRun_ToolErrorBecomesObservation(t *testing.T) {
	t.Parallel()

	failing := &tooltest.Mock{ToolName: "Search", Err: errors.New("upstream 500")}
	p := &providertest.Mock{
		Responses: []provider.CompletionResponse{
			{Text: "Action: Search\nAction Input: x"},
			{Text: "Final Answer: gave up gracefully"},
		},
	}
	a := newTestAgent(t, p, []tool.Tool{failing}, 5)

	resp, err := a.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("Run: %v — tool errors must not abort the run", err)
	}
	if resp.Answer != "gave up gracefully" {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if resp.Trace[0].Observation != "Error: upstream 500" {
		t.Errorf("Observation = %q, want the error text", resp.Trace[0].Observation)
	}
	if !strings.Contains(p.Requests[1].Prompt, "Observation: Error: upstream 500") {
		t.Error("error observation should be fed back into the next prompt")
	}
}

func TestRun_ProviderErrorKeepsTrace(t *testing.T) {
	t.Parallel()

	search := &tooltest.Mock{ToolName: "Search", Output: "partial"}
	provErr := errors.New("connection reset")
	p := &providertest.Mock{
		Responses: []provider.CompletionResponse{
			{Text: "Action: Search\nAction Input: x"},
		},
		Errs: []error{nil, provErr},
	}
	a := newTestAgent(t, p, []tool.Tool{search}, 5)

	resp, err := a.Run(context.Background(), "q")
	if !errors.Is(err, provErr) {
		t.Fatalf("err = %v, want wrapped %v", err, provErr)
	}
	if len(resp.Trace) != 1 {
		t.Errorf("len(Trace) = %d, want the step completed before the failure", len(resp.Trace))
	}
}

func TestRunObserved_StepsInOrder(t *testing.T) {
	t.Parallel()

	search := &tooltest.Mock{ToolName: "Search", Output: "found"}
	p := &providertest.Mock{
		Responses: []provider.CompletionResponse{
			{Text: "Action: Search\nAction Input: x"},
			{Text: "Final Answer: done"},
		},
	}
	a := newTestAgent(t, p, []tool.Tool{search}, 5)

	var seen []int
	resp, err := a.RunObserved(context.Background(), "q", func(s Step) {
		seen = append(seen, s.Index)
	})
	if err != nil {
		t.Fatalf("RunObserved: %v", err)
	}
	if resp.Answer != "done" {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("observer saw %v, want [1 2]", seen)
	}
}

func TestNew_DuplicateToolNames(t *testing.T) {
	t.Parallel()

	_, err := New(&providertest.Mock{}, []tool.Tool{
		&tooltest.Mock{ToolName: "same"},
		&tooltest.Mock{ToolName: "same"},
	}, Config{})
	if err == nil {
		t.Fatal("expected error for duplicate tool names")
	}
}

func TestNew_NilProvider(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, nil, Config{}); err == nil {
		t.Fatal("expected error for nil provider")
	}
}
