package world

// ModelTier marks how much bespoke treatment an edge has earned.
type ModelTier string

const (
	TierDefault    ModelTier = "default"
	TierNonDefault ModelTier = "non-default"
)

// RelationshipEdge is one direction of a pair's relationship. The reverse
// direction is stored separately and drifts on its own.
type RelationshipEdge struct {
	Model        ModelTier `json:"model"`
	Entanglement float64   `json:"entanglement"`
	Interactions int       `json:"interactions"`
	LastSequence uint64    `json:"lastSequence"`
}
