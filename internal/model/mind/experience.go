package mind

import "time"

// ExperienceRecord is one retained memory of a message that mattered.
type ExperienceRecord struct {
	Sequence   uint64    `json:"sequence"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Summary    string    `json:"summary"`
	Weight     float64   `json:"weight"`
	Timestamp  time.Time `json:"timestamp"`
}
