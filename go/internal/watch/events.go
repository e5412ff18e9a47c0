package watch

import (
	"encoding/json"
	"time"
)

// EventType names a hackathon change announced on the bus.
type EventType string

const (
	EventTypeDeadlineUpdated  EventType = "DeadlineUpdated"
	EventTypeHackathonUpdated EventType = "HackathonUpdated"
)

// Envelope is the wire format of every bus message.
type Envelope struct {
	EventID     string          `json:"eventId"`
	EventType   EventType       `json:"eventType"`
	HackathonID string          `json:"hackathonId"`
	Source      string          `json:"source"` // publishing instance
	Timestamp   time.Time       `json:"timestamp"`
	Payload     json.RawMessage `json:"payload"`
}

// DeadlineUpdatedPayload carries the new deadline. A nil Deadline tells
// receivers to fetch it from the server instead.
type DeadlineUpdatedPayload struct {
	Deadline  *string   `json:"deadline,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HackathonUpdatedPayload signals that title, rules or prizes changed.
type HackathonUpdatedPayload struct {
	UpdatedAt time.Time `json:"updated_at"`
	Fields    []string  `json:"fields,omitempty"`
}
