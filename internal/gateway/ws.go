package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/flemzord/reagent/internal/agent"
	"github.com/flemzord/reagent/internal/runner"
)

// wsEvent is one message on the /ws/query stream. Type is "step" while
// the agent is reasoning, then a final "result" or "error".
type wsEvent struct {
	Type string `json:"type"`

	// Step fields (type == "step").
	Step *stepJSON `json:"step,omitempty"`

	// Result fields (type == "result").
	Result *queryResponse `json:"result,omitempty"`

	// Error fields (type == "error").
	Detail string `json:"detail,omitempty"`
}

// handleQueryWS upgrades to a websocket, reads one query request and
// streams each reasoning step as it happens, ending with the result.
func (g *Gateway) handleQueryWS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			g.logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "unexpected close")

		ctx, cancel := context.WithTimeout(r.Context(), g.config.QueryTimeout)
		defer cancel()

		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var req queryRequest
		if err := json.Unmarshal(data, &req); err != nil {
			g.sendWSEvent(ctx, conn, wsEvent{Type: "error", Detail: "invalid JSON request: " + err.Error()})
			conn.Close(websocket.StatusUnsupportedData, "invalid request")
			return
		}
		if req.Question == "" {
			g.sendWSEvent(ctx, conn, wsEvent{Type: "error", Detail: "question is required"})
			conn.Close(websocket.StatusUnsupportedData, "invalid request")
			return
		}

		resp, elapsed, err := g.runner.Run(ctx, runner.RunRequest{
			Question:      req.Question,
			MaxIterations: req.MaxIterations,
			Tools:         req.Tools,
			Observer: func(s agent.Step) {
				js := thinkingSteps(agent.Trace{s})
				g.sendWSEvent(ctx, conn, wsEvent{Type: "step", Step: &js[0]})
			},
		})
		if err != nil {
			g.metrics.RecordFailure()
			g.sendWSEvent(ctx, conn, wsEvent{Type: "error", Detail: err.Error()})
			conn.Close(websocket.StatusNormalClosure, "query failed")
			return
		}

		g.metrics.RecordQuery(resp.Iterations, elapsed)
		g.sendWSEvent(ctx, conn, wsEvent{Type: "result", Result: &queryResponse{
			Result:          resp.Answer,
			Thinking:        thinkingSteps(resp.Trace),
			Iterations:      resp.Iterations,
			StopReason:      string(resp.StopReason),
			ExecutionTimeMS: elapsed.Milliseconds(),
		}})
		conn.Close(websocket.StatusNormalClosure, "done")
	}
}

// sendWSEvent marshals and writes one event. Write errors are logged,
// not fatal — the run itself keeps going.
func (g *Gateway) sendWSEvent(ctx context.Context, conn *websocket.Conn, ev wsEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		g.logger.Error("websocket marshal failed", "error", err)
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		g.logger.Warn("websocket write failed", "error", err)
	}
}
