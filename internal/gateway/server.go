package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Public — no auth required.
	r.Get("/health", g.handleHealth())
	r.Get("/tools", g.handleListTools())

	r.Post("/query", g.handleQuery())
	r.Post("/query/async", g.handleQueryAsync())
	r.Get("/tasks", g.handleListTasks())
	r.Get("/tasks/{id}", g.handleGetTask())

	r.Get("/ws/query", g.handleQueryWS())

	// Admin endpoints — auth required. Not mounted if no auth configured.
	if g.config.Auth.IsConfigured() {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(g.config.Auth))
			r.Get("/status", g.handleStatus())
			r.Route("/api/agents", func(r chi.Router) {
				r.Get("/", g.handleListAgents())
				r.Post("/", g.handleCreateAgent())
				r.Get("/{id}", g.handleGetAgent())
				r.Delete("/{id}", g.handleDeleteAgent())
			})
		})
	}

	return r
}
