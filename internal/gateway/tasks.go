package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListTasks returns all tracked tasks, newest first.
func (g *Gateway) handleListTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, g.tasks.List())
	}
}

// handleGetTask returns a single task by ID.
func (g *Gateway) handleGetTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		t, ok := g.tasks.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "task not found: "+id)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}
