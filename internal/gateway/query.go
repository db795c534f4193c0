package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flemzord/reagent/internal/agent"
	"github.com/flemzord/reagent/internal/runner"
	"github.com/flemzord/reagent/internal/task"
)

// queryRequest is the body of POST /query and POST /query/async.
type queryRequest struct {
	Question      string   `json:"question"`
	MaxIterations int      `json:"max_iterations,omitempty"`
	Tools         []string `json:"tools,omitempty"`
}

// stepJSON is one reasoning step in the "thinking" array.
type stepJSON struct {
	Index       int    `json:"index"`
	Output      string `json:"output"`
	Tool        string `json:"tool,omitempty"`
	ToolInput   string `json:"tool_input,omitempty"`
	Observation string `json:"observation,omitempty"`
}

// queryResponse is the body of a successful POST /query.
type queryResponse struct {
	Result          string     `json:"result"`
	Thinking        []stepJSON `json:"thinking"`
	Iterations      int        `json:"iterations"`
	StopReason      string     `json:"stop_reason"`
	ExecutionTimeMS int64      `json:"execution_time_ms"`
}

// queryError carries the failure detail plus the trace recorded before
// the run died, so callers can see how far the agent got.
type queryError struct {
	Detail     string     `json:"detail"`
	Thinking   []stepJSON `json:"thinking"`
	Iterations int        `json:"iterations"`
}

// thinkingSteps converts a trace to its JSON form.
func thinkingSteps(tr agent.Trace) []stepJSON {
	steps := make([]stepJSON, 0, len(tr))
	for _, s := range tr {
		js := stepJSON{
			Index:       s.Index,
			Output:      s.RawOutput,
			Observation: s.Observation,
		}
		if inv, ok := s.Decision.(agent.ToolInvocation); ok {
			js.Tool = inv.Tool
			js.ToolInput = inv.Input
		}
		steps = append(steps, js)
	}
	return steps
}

// handleQuery runs an agent query synchronously.
func (g *Gateway) handleQuery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := g.decodeQuery(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), g.config.QueryTimeout)
		defer cancel()

		resp, elapsed, err := g.runner.Run(ctx, runner.RunRequest{
			Question:      req.Question,
			MaxIterations: req.MaxIterations,
			Tools:         req.Tools,
		})
		if err != nil {
			g.metrics.RecordFailure()
			g.writeRunError(w, resp, err)
			return
		}

		g.metrics.RecordQuery(resp.Iterations, elapsed)
		writeJSON(w, http.StatusOK, queryResponse{
			Result:          resp.Answer,
			Thinking:        thinkingSteps(resp.Trace),
			Iterations:      resp.Iterations,
			StopReason:      string(resp.StopReason),
			ExecutionTimeMS: elapsed.Milliseconds(),
		})
	}
}

// taskAccepted is the body of POST /query/async.
type taskAccepted struct {
	TaskID string      `json:"task_id"`
	Status task.Status `json:"status"`
}

// handleQueryAsync enqueues a query and returns a task handle.
func (g *Gateway) handleQueryAsync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := g.decodeQuery(w, r)
		if !ok {
			return
		}

		t := g.tasks.Create(req.Question)
		g.metrics.RecordTask()

		go g.runTask(t.ID, req)

		writeJSON(w, http.StatusAccepted, taskAccepted{TaskID: t.ID, Status: t.Status})
	}
}

// runTask executes an async query in the background. The run is detached
// from the submitting request's context.
func (g *Gateway) runTask(id string, req queryRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), g.config.QueryTimeout)
	defer cancel()

	g.tasks.MarkRunning(id)

	resp, elapsed, err := g.runner.Run(ctx, runner.RunRequest{
		Question:      req.Question,
		MaxIterations: req.MaxIterations,
		Tools:         req.Tools,
	})
	if err != nil {
		g.metrics.RecordFailure()
		g.tasks.MarkFailed(id, err)
		g.logger.Warn("async query failed", "task_id", id, "error", err)
		return
	}

	g.metrics.RecordQuery(resp.Iterations, elapsed)
	g.tasks.MarkCompleted(id, resp.Answer, resp.Iterations)
}

// decodeQuery parses and validates the query request body.
func (g *Gateway) decodeQuery(w http.ResponseWriter, r *http.Request) (queryRequest, bool) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return queryRequest{}, false
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return queryRequest{}, false
	}
	return req, true
}

// writeRunError maps run failures to HTTP statuses. Protocol violations
// (unparsable output, unknown tool) are 422; a bad tool subset is 400;
// everything else is 500. The partial trace rides along in every case.
func (g *Gateway) writeRunError(w http.ResponseWriter, resp agent.Response, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, agent.ErrNotParsable), errors.Is(err, agent.ErrUnknownTool):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, runner.ErrToolNotInCatalog):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	writeJSON(w, status, queryError{
		Detail:     err.Error(),
		Thinking:   thinkingSteps(resp.Trace),
		Iterations: resp.Iterations,
	})
}
