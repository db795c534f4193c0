package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/flemzord/reagent/internal/provider"
)

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status    string            `json:"status"` // "ok" or "degraded"
	Tools     []string          `json:"tools"`
	Providers []provider.Status `json:"providers"`
}

// handleHealth returns an http.HandlerFunc for GET /health.
// Returns 200 if all providers are healthy, 503 if any is degraded.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{
			Status: "ok",
			Tools:  []string{},
		}

		if g.runner != nil {
			for _, t := range g.runner.Tools() {
				resp.Tools = append(resp.Tools, t.Name())
			}
			if chain := g.runner.Chain(); chain != nil {
				resp.Providers = chain.HealthReport()
				for _, p := range resp.Providers {
					if !p.Available {
						resp.Status = "degraded"
						break
					}
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status == "degraded" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// toolJSON is one catalog entry in GET /tools.
type toolJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// handleListTools returns the tool catalog in configured order.
func (g *Gateway) handleListTools() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		tools := []toolJSON{}
		if g.runner != nil {
			for _, t := range g.runner.Tools() {
				tools = append(tools, toolJSON{Name: t.Name(), Description: t.Description()})
			}
		}
		writeJSON(w, http.StatusOK, tools)
	}
}
