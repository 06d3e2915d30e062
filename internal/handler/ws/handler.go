package ws

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mkarren/terrarium/internal/model/world"
	worldservice "github.com/mkarren/terrarium/internal/service/world"
	"github.com/mkarren/terrarium/pkg/utils"
)

const (
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = (pongWait * 9) / 10
	maxFrameBytes = 4096

	// clientBuffer is how far a connection may fall behind the world
	// feed before events are dropped for it.
	clientBuffer = 32
)

// inboundFrame is what a connected client may send: a message into
// the world. An empty to is a broadcast.
type inboundFrame struct {
	To      string         `json:"to"`
	Content string         `json:"content"`
	ReplyTo string         `json:"replyTo,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

type eventFrame struct {
	Event string      `json:"event"`
	Data  world.Event `json:"data"`
}

type errorFrame struct {
	Event string `json:"event"`
	Error string `json:"error"`
}

// Handler joins websocket clients to the world as human inhabitants.
// Each connection enters on open, relays frames as messages, and
// leaves on disconnect.
type Handler struct {
	worldSvc *worldservice.Service
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[chan any]struct{}
}

// New creates the websocket handler and subscribes it to the world feed.
func New(worldSvc *worldservice.Service) *Handler {
	h := &Handler{
		worldSvc: worldSvc,
		clients:  make(map[chan any]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, name := range []string{worldservice.EventEnter, worldservice.EventLeave, worldservice.EventMessage} {
		name := name
		worldSvc.On(name, func(ev world.Event) { h.publish(name, ev) })
	}
	return h
}

// RegisterRoutes registers the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/world/ws", h.handleWS)
}

func (h *Handler) publish(name string, ev world.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- eventFrame{Event: name, Data: ev}:
		default:
			// slow client, drop the event
		}
	}
}

func (h *Handler) addClient() chan any {
	ch := make(chan any, clientBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Handler) removeClient(ch chan any) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

func (h *Handler) handleWS(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		utils.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	id := uuid.NewString()
	// Subscribe before entering so the connection sees its own enter
	// event as the first frame.
	events := h.addClient()

	if _, err := h.worldSvc.Enter(r.Context(), world.Inhabitant{ID: id, Name: name, Kind: world.KindHuman}); err != nil {
		h.removeClient(events)
		conn.WriteJSON(errorFrame{Event: "error", Error: err.Error()})
		conn.Close()
		return
	}
	log.Printf("[ws] %s joined as %s", name, id)

	done := make(chan struct{})
	go h.writePump(conn, events, done)

	h.readPump(conn, id, events)

	close(done)
	h.removeClient(events)
	if _, err := h.worldSvc.Leave(context.Background(), id); err != nil {
		log.Printf("[ws] leave %s: %v", id, err)
	}
	conn.Close()
	log.Printf("[ws] %s left", id)
}

// writePump owns all writes on the connection. Error frames from the
// read side travel through the same channel as world events, so there
// is never a second writer.
func (h *Handler) writePump(conn *websocket.Conn, events chan any, done chan struct{}) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case frame := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) readPump(conn *websocket.Conn, id string, events chan any) {
	conn.SetReadLimit(maxFrameBytes)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] read from %s: %v", id, err)
			}
			return
		}

		input := world.MessageInput{From: id, To: frame.To, Content: frame.Content, ReplyTo: frame.ReplyTo, Meta: frame.Meta}
		if _, err := h.worldSvc.ProcessMessage(context.Background(), input); err != nil {
			select {
			case events <- errorFrame{Event: "error", Error: err.Error()}:
			default:
			}
		}
	}
}
