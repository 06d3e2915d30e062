package agents

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkarren/terrarium/internal/service/director"
	"github.com/mkarren/terrarium/pkg/utils"
)

// Handler exposes the agent roster and each agent's mind.
type Handler struct {
	director *director.Director
}

// New creates the agents handler.
func New(d *director.Director) *Handler {
	return &Handler{director: d}
}

// RegisterRoutes registers the agent routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/agents", h.handleListAgents)
	r.Get("/agents/{id}/mind", h.handleMind)
}

type listedAgent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) handleListAgents(w http.ResponseWriter, r *http.Request) {
	ids := h.director.IDs()
	roster := make([]listedAgent, 0, len(ids))
	for _, id := range ids {
		snap, ok := h.director.Snapshot(id)
		if !ok {
			continue
		}
		roster = append(roster, listedAgent{ID: snap.ID, Name: snap.Name})
	}
	utils.RespondJSON(w, http.StatusOK, roster)
}

// handleMind returns everything the agent currently carries: models of
// others, experience, topics, and silence.
func (h *Handler) handleMind(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.director.Snapshot(chi.URLParam(r, "id"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "agent not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, snap)
}
