package stream

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkarren/terrarium/internal/model/world"
	worldservice "github.com/mkarren/terrarium/internal/service/world"
	"github.com/mkarren/terrarium/pkg/utils"
)

// clientBuffer is how far a subscriber may fall behind before the
// broker starts dropping events for it.
const clientBuffer = 32

const heartbeatEvery = 15 * time.Second

type envelope struct {
	name  string
	event world.Event
}

// Handler fans the world's event feed out to SSE subscribers.
type Handler struct {
	mu      sync.Mutex
	clients map[chan envelope]struct{}
}

// New creates the stream handler and subscribes it to every event the
// world publishes.
func New(w *worldservice.Service) *Handler {
	h := &Handler{clients: make(map[chan envelope]struct{})}
	for _, name := range []string{worldservice.EventEnter, worldservice.EventLeave, worldservice.EventMessage} {
		name := name
		w.On(name, func(ev world.Event) { h.publish(name, ev) })
	}
	return h
}

// RegisterRoutes registers the stream route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/world/stream", h.handleStream)
}

func (h *Handler) publish(name string, ev world.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- envelope{name: name, event: ev}:
		default:
			// slow client, drop the event
		}
	}
}

func (h *Handler) subscribe() chan envelope {
	ch := make(chan envelope, clientBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Handler) unsubscribe(ch chan envelope) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	utils.SetupSSEHeaders(w)
	flusher.Flush()

	log.Printf("[stream] client connected")
	defer log.Printf("[stream] client disconnected")

	heartbeat := time.NewTicker(heartbeatEvery)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case env := <-ch:
			utils.SendSSEEvent(w, flusher, env.name, env.event)
		case <-heartbeat.C:
			utils.SendSSEEvent(w, flusher, "heartbeat", map[string]any{"time": time.Now().UTC()})
		}
	}
}
