package watch

import (
	"time"

	"github.com/nats-io/nats.go"
)

// Config holds NATS connection and JetStream settings.
type Config struct {
	URL               string
	StreamName        string
	SubjectPrefix     string // subjects are <prefix>.<EventType>
	HackathonID       string
	MaxDeliver        int
	AckWait           time.Duration
	MaxAckPending     int
	InactiveThreshold time.Duration
	MaxReconnects     int
	ReconnectWait     time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:               nats.DefaultURL,
		StreamName:        "HACKATHON_EVENTS",
		SubjectPrefix:     "hackathon.events",
		HackathonID:       "default",
		MaxDeliver:        5,
		AckWait:           30 * time.Second,
		MaxAckPending:     100,
		InactiveThreshold: 5 * time.Minute,
		MaxReconnects:     -1, // Infinite
		ReconnectWait:     2 * time.Second,
	}
}

// Subject returns the subject an event type is published on.
func (c Config) Subject(eventType EventType) string {
	return c.SubjectPrefix + "." + string(eventType)
}

// FilterSubject matches every hackathon event.
func (c Config) FilterSubject() string {
	return c.SubjectPrefix + ".>"
}
