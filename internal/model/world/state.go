package world

// State is a point-in-time summary of the world for observers and agents.
type State struct {
	ActiveInhabitants int          `json:"activeInhabitants"`
	MessageCount      int          `json:"messageCount"`
	EventCount        int          `json:"eventCount"`
	Inhabitants       []Inhabitant `json:"inhabitants"`
}
