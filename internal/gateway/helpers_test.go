package gateway

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/flemzord/reagent/internal/agent"
	"github.com/flemzord/reagent/internal/provider"
	"github.com/flemzord/reagent/internal/record"
	"github.com/flemzord/reagent/internal/runner"
	"github.com/flemzord/reagent/internal/task"
	"github.com/flemzord/reagent/internal/tool"
	"github.com/flemzord/reagent/internal/tool/tooltest"
)

// fakeRunner returns a scripted response or error for every query and
// records the requests it received.
type fakeRunner struct {
	resp     agent.Response
	err      error
	elapsed  time.Duration
	tools    []tool.Tool
	chain    *provider.Chain
	requests []runner.RunRequest
}

func (f *fakeRunner) Run(_ context.Context, req runner.RunRequest) (agent.Response, time.Duration, error) {
	f.requests = append(f.requests, req)
	if req.Observer != nil {
		for _, s := range f.resp.Trace {
			req.Observer(s)
		}
	}
	return f.resp, f.elapsed, f.err
}

func (f *fakeRunner) Tools() []tool.Tool     { return f.tools }
func (f *fakeRunner) Chain() *provider.Chain { return f.chain }

// testGateway builds a gateway wired to the fake runner, ready to serve.
func testGateway(t *testing.T, r AgentRunner) *Gateway {
	t.Helper()

	cfg := Config{Auth: AuthConfig{BearerToken: "test-token"}}
	cfg.defaults()

	g := &Gateway{
		config:    cfg,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:   &Metrics{},
		tasks:     task.NewTracker(),
		runner:    r,
		store:     record.NewMemStore(),
		startedAt: time.Now(),
	}
	return g
}

func answeredResponse(answer string) agent.Response {
	return agent.Response{
		Answer:     answer,
		Iterations: 1,
		StopReason: agent.StopReasonAnswered,
		Trace: agent.Trace{
			{Index: 1, RawOutput: "Final Answer: " + answer, Decision: agent.FinalAnswer{Text: answer}},
		},
	}
}

func catalogTools(names ...string) []tool.Tool {
	out := make([]tool.Tool, 0, len(names))
	for _, n := range names {
		out = append(out, &tooltest.Mock{ToolName: n, ToolDesc: n + " tool"})
	}
	return out
}
