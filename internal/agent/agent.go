package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/flemzord/reagent/internal/provider"
	"github.com/flemzord/reagent/internal/tool"
)

// Observer receives each step as soon as it is recorded. Used to stream
// "thinking" to UIs; purely informational, never part of the contract.
type Observer func(Step)

// Agent drives the ReAct loop: render prompt → complete → parse →
// dispatch, repeating until a final answer or the iteration budget runs
// out. One Agent may serve concurrent runs as long as its provider and
// tools are reentrant.
type Agent struct {
	provider provider.Provider
	tools    []tool.Tool
	byName   map[string]tool.Tool
	config   Config
}

// New creates an Agent over the given provider and ordered tool catalog.
// Tool names must be unique: lookup by name has to be unambiguous.
func New(p provider.Provider, tools []tool.Tool, cfg Config) (*Agent, error) {
	if p == nil {
		return nil, fmt.Errorf("agent: provider must not be nil")
	}

	byName := make(map[string]tool.Tool, len(tools))
	for _, t := range tools {
		name := t.Name()
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("agent: duplicate tool name %q", name)
		}
		byName[name] = t
	}

	return &Agent{
		provider: p,
		tools:    tools,
		byName:   byName,
		config:   cfg.withDefaults(),
	}, nil
}

// Run executes the loop until a final answer or exhaustion. Exhaustion is
// a normal termination: the Response carries ExhaustedAnswer and a nil
// error. On a fatal failure (parse failure, unknown tool, provider error)
// the returned Response still carries the trace accumulated so far.
func (a *Agent) Run(ctx context.Context, question string) (Response, error) {
	return a.run(ctx, question, nil)
}

// RunObserved is Run with a per-step callback. The callback is invoked
// synchronously after each step is recorded, in step order.
func (a *Agent) RunObserved(ctx context.Context, question string, obs Observer) (Response, error) {
	return a.run(ctx, question, obs)
}

func (a *Agent) run(ctx context.Context, question string, obs Observer) (Response, error) {
	today := a.config.Now()

	var (
		trace      Trace
		transcript []string
	)

	notify := func(s Step) {
		if obs != nil {
			obs(s)
		}
	}

	for i := 1; i <= a.config.MaxIterations; i++ {
		prompt := renderPrompt(a.config.Template, today, a.tools, question, strings.Join(transcript, "\n"))

		resp, err := a.provider.Complete(ctx, provider.CompletionRequest{
			Prompt: prompt,
			Stop:   a.config.Stop,
		})
		if err != nil {
			return Response{Trace: trace, Iterations: i - 1, StopReason: StopReasonError},
				fmt.Errorf("agent: completion failed at step %d: %w", i, err)
		}

		decision, err := parseDecision(resp.Text)
		if err != nil {
			return Response{Trace: trace, Iterations: i - 1, StopReason: StopReasonError}, err
		}

		switch d := decision.(type) {
		case FinalAnswer:
			step := Step{Index: i, RawOutput: resp.Text, Decision: d}
			trace = append(trace, step)
			notify(step)
			a.config.Logger.Debug("final answer", "step", i, "answer", d.Text)

			return Response{
				Answer:     d.Text,
				Trace:      trace,
				Iterations: i,
				StopReason: StopReasonAnswered,
			}, nil

		case ToolInvocation:
			t, ok := a.byName[d.Tool]
			if !ok {
				return Response{Trace: trace, Iterations: i - 1, StopReason: StopReasonError},
					&UnknownToolError{Name: d.Tool}
			}

			observation, err := t.Invoke(ctx, d.Input)
			if err != nil {
				// Tool errors become observations so the model can
				// reason about the failure and try another action.
				observation = "Error: " + err.Error()
				a.config.Logger.Warn("tool invocation failed",
					"step", i, "tool", d.Tool, "error", err)
			}

			step := Step{Index: i, RawOutput: resp.Text, Decision: d, Observation: observation}
			trace = append(trace, step)
			notify(step)
			a.config.Logger.Debug("tool invoked",
				"step", i, "tool", d.Tool, "input", d.Input)

			transcript = append(transcript, transcriptEntry(resp.Text, observation))
		}
	}

	return Response{
		Answer:     ExhaustedAnswer,
		Trace:      trace,
		Iterations: a.config.MaxIterations,
		StopReason: StopReasonExhausted,
	}, nil
}
