package world

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkarren/terrarium/internal/analysis/topic"
	"github.com/mkarren/terrarium/internal/model/world"
)

var (
	ErrIdentityRequired  = errors.New("inhabitant id and name are required")
	ErrUnknownInhabitant = errors.New("inhabitant not found")
	ErrUnknownSender     = errors.New("sender is not an active inhabitant")
)

const (
	// Direct messages entangle both directions, the sender's harder.
	senderEntangle    = 0.10
	recipientEntangle = 0.05

	// Interactions an edge needs before it leaves the default tier.
	directPromoteOver    = 1
	broadcastPromoteOver = 2

	// How many prior messages the classifier looks back over.
	classifyWindow = 20
)

// Service is the authoritative world: the active inhabitant set, the
// append-only event log, and the directed relationship graph. Each
// operation mutates inside a single critical section and publishes after
// the lock is released, so a subscriber that submits a follow-up message
// still observes strictly increasing sequences.
type Service struct {
	mu            sync.RWMutex
	inhabitants   map[string]world.Inhabitant
	events        []world.Event
	relationships map[string]map[string]*world.RelationshipEdge
	seq           uint64
	messageCount  int

	bus *emitter
}

// NewService bootstraps an empty world.
func NewService() *Service {
	return &Service{
		inhabitants:   make(map[string]world.Inhabitant),
		relationships: make(map[string]map[string]*world.RelationshipEdge),
		bus:           newEmitter(),
	}
}

// On registers a handler for one of the published event names.
func (s *Service) On(name string, h Handler) {
	s.bus.on(name, h)
}

// Enter admits an inhabitant and seeds default edges in both directions
// with every other active inhabitant. Entering an already-active id
// re-initializes those edges, so callers hand out fresh ids.
func (s *Service) Enter(_ context.Context, inh world.Inhabitant) (world.Event, error) {
	if inh.ID == "" || inh.Name == "" {
		return world.Event{}, ErrIdentityRequired
	}
	if inh.Kind == "" {
		inh.Kind = world.KindHuman
	}

	s.mu.Lock()
	s.inhabitants[inh.ID] = inh
	if s.relationships[inh.ID] == nil {
		s.relationships[inh.ID] = make(map[string]*world.RelationshipEdge)
	}
	for otherID := range s.inhabitants {
		if otherID == inh.ID {
			continue
		}
		s.relationships[inh.ID][otherID] = &world.RelationshipEdge{Model: world.TierDefault}
		if s.relationships[otherID] == nil {
			s.relationships[otherID] = make(map[string]*world.RelationshipEdge)
		}
		s.relationships[otherID][inh.ID] = &world.RelationshipEdge{Model: world.TierDefault}
	}
	ev := s.record(world.Event{Type: world.TypeEnter, Inhabitant: &inh})
	s.mu.Unlock()

	s.bus.emit(EventEnter, ev)
	return ev, nil
}

// Leave retires an inhabitant from the active set. The relationship graph
// keeps every edge the inhabitant earned. Leaving an id that is not active
// fails without recording anything.
func (s *Service) Leave(_ context.Context, id string) (world.Event, error) {
	s.mu.Lock()
	if _, ok := s.inhabitants[id]; !ok {
		s.mu.Unlock()
		return world.Event{}, ErrUnknownInhabitant
	}
	delete(s.inhabitants, id)
	ev := s.record(world.Event{Type: world.TypeLeave, InhabitantID: id})
	s.mu.Unlock()

	s.bus.emit(EventLeave, ev)
	return ev, nil
}

// ProcessMessage validates, classifies, sequences, and records a message,
// moves the relationship graph, and publishes the recorded event. A
// rejected message leaves no trace: no event, no sequence, no edge
// movement.
func (s *Service) ProcessMessage(_ context.Context, in world.MessageInput) (world.Event, error) {
	s.mu.Lock()
	sender, ok := s.inhabitants[in.From]
	if !ok {
		s.mu.Unlock()
		return world.Event{}, ErrUnknownSender
	}
	if in.To == "" {
		in.To = world.TargetWorld
	}

	// The new message is judged against the window recorded before it.
	verdict := topic.Classify(in.Content, s.recentContentsLocked(classifyWindow))
	ev := s.record(world.Event{
		Type:           world.TypeMessage,
		From:           sender.ID,
		FromName:       sender.Name,
		To:             in.To,
		Content:        in.Content,
		ReplyTo:        in.ReplyTo,
		Meta:           in.Meta,
		Classification: world.Classification(verdict),
	})
	s.messageCount++
	if in.To == world.TargetWorld {
		s.touchBroadcastLocked(sender.ID, ev.Sequence)
	} else {
		s.touchDirectLocked(sender.ID, in.To, ev.Sequence)
	}
	s.mu.Unlock()

	s.bus.emit(EventMessage, ev)
	return ev, nil
}

// record stamps and appends an event. Callers hold mu.
func (s *Service) record(ev world.Event) world.Event {
	s.seq++
	ev.ID = uuid.NewString()
	ev.Sequence = s.seq
	ev.Timestamp = time.Now().UTC()
	s.events = append(s.events, ev)
	return ev
}

// recentContentsLocked collects the contents of up to n of the most
// recently recorded messages. Callers hold mu.
func (s *Service) recentContentsLocked(n int) []string {
	contents := make([]string, 0, n)
	for i := len(s.events) - 1; i >= 0 && len(contents) < n; i-- {
		if s.events[i].Type == world.TypeMessage {
			contents = append(contents, s.events[i].Content)
		}
	}
	return contents
}

// touchDirectLocked moves both directions of an addressed exchange. Only
// edges already present in the graph move.
func (s *Service) touchDirectLocked(from, to string, seq uint64) {
	if edge := s.edgeLocked(from, to); edge != nil {
		edge.Entanglement = math.Min(1, edge.Entanglement+senderEntangle)
		edge.Interactions++
		edge.LastSequence = seq
		if edge.Interactions > directPromoteOver {
			edge.Model = world.TierNonDefault
		}
	}
	if edge := s.edgeLocked(to, from); edge != nil {
		edge.Entanglement = math.Min(1, edge.Entanglement+recipientEntangle)
		edge.Interactions++
		edge.LastSequence = seq
		if edge.Interactions > directPromoteOver {
			edge.Model = world.TierNonDefault
		}
	}
}

// touchBroadcastLocked counts a broadcast on the sender's outgoing edges
// toward every other active inhabitant. Entanglement does not move and the
// reverse edges stay put; broadcast reach is one-way.
func (s *Service) touchBroadcastLocked(from string, seq uint64) {
	for otherID := range s.inhabitants {
		if otherID == from {
			continue
		}
		edge := s.edgeLocked(from, otherID)
		if edge == nil {
			continue
		}
		edge.Interactions++
		edge.LastSequence = seq
		if edge.Interactions > broadcastPromoteOver {
			edge.Model = world.TierNonDefault
		}
	}
}

func (s *Service) edgeLocked(from, to string) *world.RelationshipEdge {
	if edges, ok := s.relationships[from]; ok {
		return edges[to]
	}
	return nil
}
