package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkarren/terrarium/internal/handler/agents"
	"github.com/mkarren/terrarium/internal/handler/persona"
	"github.com/mkarren/terrarium/internal/handler/stream"
	"github.com/mkarren/terrarium/internal/handler/world"
	"github.com/mkarren/terrarium/internal/handler/ws"
	middlewarePkg "github.com/mkarren/terrarium/internal/middleware"
	personaModel "github.com/mkarren/terrarium/internal/model/persona"
	"github.com/mkarren/terrarium/internal/service/director"
	worldService "github.com/mkarren/terrarium/internal/service/world"
	"github.com/mkarren/terrarium/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(personas personaModel.Store, worldSvc *worldService.Service, d *director.Director) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	// Create handlers
	personaHandler := persona.New(personas)
	worldHandler := world.New(worldSvc)
	agentsHandler := agents.New(d)
	streamHandler := stream.New(worldSvc)
	wsHandler := ws.New(worldSvc)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		personaHandler.RegisterRoutes(api)
		worldHandler.RegisterRoutes(api)
		agentsHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
