package world

import (
	"context"
	"sort"

	"github.com/mkarren/terrarium/internal/model/world"
)

// DefaultRecentLimit bounds RecentMessages when no limit is given.
const DefaultRecentLimit = 20

// State summarizes the world for observers and for deciding agents.
func (s *Service) State(_ context.Context) world.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return world.State{
		ActiveInhabitants: len(s.inhabitants),
		MessageCount:      s.messageCount,
		EventCount:        len(s.events),
		Inhabitants:       s.inhabitantsLocked(),
	}
}

// Inhabitants lists the active inhabitants sorted by id.
func (s *Service) Inhabitants(_ context.Context) []world.Inhabitant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inhabitantsLocked()
}

func (s *Service) inhabitantsLocked() []world.Inhabitant {
	list := make([]world.Inhabitant, 0, len(s.inhabitants))
	for _, inh := range s.inhabitants {
		list = append(list, inh)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// RecentMessages returns up to limit of the latest message events in
// chronological order.
func (s *Service) RecentMessages(_ context.Context, limit int) []world.Event {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	collected := make([]world.Event, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(collected) < limit; i-- {
		if s.events[i].Type == world.TypeMessage {
			collected = append(collected, s.events[i])
		}
	}
	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}
	return collected
}

// Memory returns a copy of the full event log.
func (s *Service) Memory(_ context.Context) []world.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]world.Event, len(s.events))
	copy(copied, s.events)
	return copied
}

// Relationships returns a copy of the outgoing edges recorded for id,
// including edges toward inhabitants who have since left.
func (s *Service) Relationships(_ context.Context, id string) (map[string]world.RelationshipEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges, ok := s.relationships[id]
	if !ok {
		return nil, ErrUnknownInhabitant
	}
	copied := make(map[string]world.RelationshipEdge, len(edges))
	for otherID, edge := range edges {
		copied[otherID] = *edge
	}
	return copied, nil
}
