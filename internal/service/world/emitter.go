package world

import (
	"sync"

	"github.com/mkarren/terrarium/internal/model/world"
)

// Event names published by the world.
const (
	EventEnter   = "inhabitant:enter"
	EventLeave   = "inhabitant:leave"
	EventMessage = "message"
)

// Handler receives a published world event.
type Handler func(world.Event)

// emitter is the world's subscription registry. Handlers registered for a
// name run synchronously, in registration order, on the publishing
// goroutine. The world never publishes while holding its state lock, so a
// handler is free to submit follow-up messages.
type emitter struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func newEmitter() *emitter {
	return &emitter{handlers: make(map[string][]Handler)}
}

func (e *emitter) on(name string, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[name] = append(e.handlers[name], h)
}

func (e *emitter) emit(name string, ev world.Event) {
	e.mu.RLock()
	handlers := append([]Handler(nil), e.handlers[name]...)
	e.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
}
