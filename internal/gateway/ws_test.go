package gateway

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/flemzord/reagent/internal/agent"
)

func TestQueryWSStreamsStepsThenResult(t *testing.T) {
	t.Parallel()

	fr := &fakeRunner{resp: agent.Response{
		Answer:     "done",
		Iterations: 2,
		StopReason: agent.StopReasonAnswered,
		Trace: agent.Trace{
			{
				Index:       1,
				RawOutput:   "Thought: search first.\nAction: Search\nAction Input: query",
				Decision:    agent.ToolInvocation{Tool: "Search", Input: "query"},
				Observation: "some results",
			},
			{
				Index:     2,
				RawOutput: "Final Answer: done",
				Decision:  agent.FinalAnswer{Text: "done"},
			},
		},
	}}
	g := testGateway(t, fr)

	srv := httptest.NewServer(g.buildRouter())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/query"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "test done")

	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"question":"q"}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var events []wsEvent
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		var ev wsEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		events = append(events, ev)
		if ev.Type == "result" || ev.Type == "error" {
			break
		}
	}

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3 (2 steps + result): %+v", len(events), events)
	}
	if events[0].Type != "step" || events[0].Step.Tool != "Search" {
		t.Errorf("first event = %+v, want a Search step", events[0])
	}
	if events[2].Type != "result" {
		t.Fatalf("last event type = %q, want %q", events[2].Type, "result")
	}
	if events[2].Result.Result != "done" {
		t.Errorf("result = %q, want %q", events[2].Result.Result, "done")
	}
}

func TestQueryWSMissingQuestion(t *testing.T) {
	t.Parallel()

	g := testGateway(t, &fakeRunner{})
	srv := httptest.NewServer(g.buildRouter())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/query"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "test done")

	if err := conn.Write(ctx, websocket.MessageText, []byte(`{}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	var ev wsEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decoding event: %v", err)
	}
	if ev.Type != "error" {
		t.Errorf("event type = %q, want %q", ev.Type, "error")
	}
}
