package agent

import "github.com/mkarren/terrarium/internal/model/mind"

// Snapshot is a copy of an agent's private state for inspection.
type Snapshot struct {
	ID           string                       `json:"id"`
	Name         string                       `json:"name"`
	PersonaID    string                       `json:"personaId"`
	Mood         string                       `json:"mood"`
	Interests    []string                     `json:"interests"`
	Engagement   float64                      `json:"engagement"`
	Models       map[string]mind.ModelOfOther `json:"models"`
	Experience   []mind.ExperienceRecord      `json:"experience"`
	Topics       []string                     `json:"topics"`
	SilenceTicks int                          `json:"silenceTicks"`
}

// Snapshot copies out the agent's current mind.
func (a *Agent) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	models := make(map[string]mind.ModelOfOther, len(a.models))
	for id, m := range a.models {
		copied := *m
		copied.Beliefs = append([]string(nil), m.Beliefs...)
		models[id] = copied
	}
	return Snapshot{
		ID:           a.id,
		Name:         a.name,
		PersonaID:    a.persona.ID,
		Mood:         a.persona.Mood,
		Interests:    append([]string(nil), a.persona.Interests...),
		Engagement:   a.persona.Engagement,
		Models:       models,
		Experience:   append([]mind.ExperienceRecord(nil), a.experience...),
		Topics:       append([]string(nil), a.topics...),
		SilenceTicks: a.silence,
	}
}
