package mind

import "time"

// Style labels how another inhabitant tends to write.
type Style string

const (
	StyleUnknown     Style = "unknown"
	StyleInquisitive Style = "inquisitive"
	StyleVerbose     Style = "verbose"
	StyleTerse       Style = "terse"
)

// MutualModel is the depth-2 guess at how the other party sees this agent.
type MutualModel struct {
	Trust    float64 `json:"trust"`
	Interest float64 `json:"interest"`
}

// ModelOfOther is one agent's private, never-verified picture of another
// inhabitant. It drifts only with observed messages.
type ModelOfOther struct {
	Name           string      `json:"name"`
	Beliefs        []string    `json:"beliefs"`
	Style          Style       `json:"style"`
	Trust          float64     `json:"trust"`
	Messages       int         `json:"messages"`
	LastSeen       time.Time   `json:"lastSeen"`
	TheirModelOfMe MutualModel `json:"theirModelOfMe"`
}

// NewModelOfOther returns the neutral first-contact model.
func NewModelOfOther(name string) *ModelOfOther {
	return &ModelOfOther{
		Name:           name,
		Beliefs:        []string{},
		Style:          StyleUnknown,
		Trust:          0.5,
		TheirModelOfMe: MutualModel{Trust: 0.5},
	}
}
