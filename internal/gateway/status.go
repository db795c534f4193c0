package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/flemzord/reagent/internal/provider"
)

// StatusResponse is the JSON response for GET /status.
type StatusResponse struct {
	Uptime    time.Duration     `json:"uptime_seconds"`
	Metrics   MetricsSnapshot   `json:"metrics"`
	Tasks     int               `json:"tasks"`
	Providers []provider.Status `json:"providers"`
}

// handleStatus returns an http.HandlerFunc for GET /status.
func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{
			Uptime:  time.Since(g.startedAt).Truncate(time.Second),
			Metrics: g.metrics.Snapshot(),
			Tasks:   g.tasks.Len(),
		}

		if g.runner != nil {
			if chain := g.runner.Chain(); chain != nil {
				resp.Providers = chain.HealthReport()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
