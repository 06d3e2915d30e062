package world

import "time"

// EventType enumerates the record kinds in the world log.
type EventType string

const (
	TypeEnter   EventType = "enter"
	TypeLeave   EventType = "leave"
	TypeMessage EventType = "message"
)

// Classification tags a message as opening fresh ground or staying on it.
type Classification string

const (
	// Fork marks a topic the recent conversation has not touched.
	Fork Classification = "fork"
	// Perturbation marks a riff on something already in the air.
	Perturbation Classification = "perturbation"
)

// Event is the only record kind in the append-only world log. Enter events
// carry the inhabitant, leave events carry the inhabitant id, and message
// events carry the sender/recipient fields plus a classification.
type Event struct {
	ID             string         `json:"id"`
	Sequence       uint64         `json:"sequence"`
	Timestamp      time.Time      `json:"timestamp"`
	Type           EventType      `json:"type"`
	From           string         `json:"from,omitempty"`
	FromName       string         `json:"fromName,omitempty"`
	To             string         `json:"to,omitempty"`
	Content        string         `json:"content,omitempty"`
	ReplyTo        string         `json:"replyTo,omitempty"`
	Meta           map[string]any `json:"meta,omitempty"`
	Classification Classification `json:"classification,omitempty"`
	Inhabitant     *Inhabitant    `json:"inhabitant,omitempty"`
	InhabitantID   string         `json:"inhabitantId,omitempty"`
}

// MessageInput is a message submission before the world records it. An
// empty To is treated as a broadcast.
type MessageInput struct {
	From    string         `json:"from"`
	To      string         `json:"to"`
	Content string         `json:"content"`
	ReplyTo string         `json:"replyTo,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}
