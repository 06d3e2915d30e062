package world

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkarren/terrarium/internal/model/world"
	worldservice "github.com/mkarren/terrarium/internal/service/world"
	"github.com/mkarren/terrarium/pkg/utils"
)

// Handler exposes the world engine over HTTP.
type Handler struct {
	worldSvc *worldservice.Service
}

// New creates the world handler.
func New(worldSvc *worldservice.Service) *Handler {
	return &Handler{worldSvc: worldSvc}
}

// RegisterRoutes registers the world routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/world/inhabitants", h.handleEnter)
	r.Get("/world/inhabitants", h.handleListInhabitants)
	r.Delete("/world/inhabitants/{id}", h.handleLeave)
	r.Post("/world/messages", h.handleSubmitMessage)
	r.Get("/world/messages", h.handleRecentMessages)
	r.Get("/world/state", h.handleState)
	r.Get("/world/memory", h.handleMemory)
	r.Get("/world/relationships/{id}", h.handleRelationships)
}

// handleEnter admits an inhabitant. The id is minted when the caller
// does not bring one.
func (h *Handler) handleEnter(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Kind string `json:"kind"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Name == "" {
		utils.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}

	kind := world.Kind(payload.Kind)
	if kind != "" && kind != world.KindAgent && kind != world.KindHuman {
		utils.RespondError(w, http.StatusBadRequest, "unknown kind")
		return
	}

	id := payload.ID
	if id == "" {
		id = uuid.NewString()
	}

	ev, err := h.worldSvc.Enter(r.Context(), world.Inhabitant{ID: id, Name: payload.Name, Kind: kind})
	if err != nil {
		if errors.Is(err, worldservice.ErrIdentityRequired) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, ev)
}

func (h *Handler) handleListInhabitants(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.worldSvc.Inhabitants(r.Context()))
}

func (h *Handler) handleLeave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ev, err := h.worldSvc.Leave(r.Context(), id)
	if err != nil {
		if errors.Is(err, worldservice.ErrUnknownInhabitant) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, ev)
}

// handleSubmitMessage records a message and returns the event the world
// kept, classification included.
func (h *Handler) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	var payload world.MessageInput

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.From == "" {
		utils.RespondError(w, http.StatusBadRequest, "from is required")
		return
	}

	ev, err := h.worldSvc.ProcessMessage(r.Context(), payload)
	if err != nil {
		if errors.Is(err, worldservice.ErrUnknownSender) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, ev)
}

func (h *Handler) handleRecentMessages(w http.ResponseWriter, r *http.Request) {
	limit := worldservice.DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	utils.RespondJSON(w, http.StatusOK, h.worldSvc.RecentMessages(r.Context(), limit))
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.worldSvc.State(r.Context()))
}

func (h *Handler) handleMemory(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.worldSvc.Memory(r.Context()))
}

func (h *Handler) handleRelationships(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	edges, err := h.worldSvc.Relationships(r.Context(), id)
	if err != nil {
		if errors.Is(err, worldservice.ErrUnknownInhabitant) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, edges)
}
