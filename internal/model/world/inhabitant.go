package world

// Kind distinguishes scripted agents from live humans.
type Kind string

const (
	KindAgent Kind = "agent"
	KindHuman Kind = "human"
)

// TargetWorld addresses a message to every active inhabitant at once.
const TargetWorld = "world"

// Inhabitant identifies one participant in the world.
type Inhabitant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}
