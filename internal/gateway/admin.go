package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/flemzord/reagent/internal/record"
	"github.com/go-chi/chi/v5"
)

// createAgentRequest is the body of POST /api/agents.
type createAgentRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Model       string   `json:"model"`
	Tools       []string `json:"tools"`
}

// handleListAgents returns all stored agent records.
func (g *Gateway) handleListAgents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := g.store.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if records == nil {
			records = []record.Record{}
		}
		writeJSON(w, http.StatusOK, records)
	}
}

// handleCreateAgent validates and stores a new agent record.
func (g *Gateway) handleCreateAgent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAgentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}

		rec := record.Record{
			ID:          record.NewID(),
			Name:        req.Name,
			Description: req.Description,
			Model:       req.Model,
			Tools:       req.Tools,
			Status:      "active",
			CreatedAt:   time.Now().UTC(),
		}

		if err := record.Validate(rec, g.config.AllowedModels, g.toolNames()); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := g.store.Create(r.Context(), rec); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, rec)
	}
}

// handleGetAgent returns one agent record by ID.
func (g *Gateway) handleGetAgent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rec, err := g.store.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, record.ErrNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// handleDeleteAgent removes an agent record by ID.
func (g *Gateway) handleDeleteAgent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := g.store.Delete(r.Context(), id); err != nil {
			if errors.Is(err, record.ErrNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// toolNames returns the configured catalog's tool names.
func (g *Gateway) toolNames() []string {
	if g.runner == nil {
		return nil
	}
	tools := g.runner.Tools()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name())
	}
	return names
}
