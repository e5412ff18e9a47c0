package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// Publisher announces hackathon changes to every running watcher.
type Publisher struct {
	js         jetstream.JetStream
	config     Config
	instanceID string
	now        func() time.Time
}

func NewPublisher(js jetstream.JetStream, config Config, instanceID string) *Publisher {
	return &Publisher{
		js:         js,
		config:     config,
		instanceID: instanceID,
		now:        time.Now,
	}
}

// PublishDeadlineUpdated announces a new deadline in the server's storage format.
func (p *Publisher) PublishDeadlineUpdated(ctx context.Context, deadline string) error {
	return p.publish(ctx, EventTypeDeadlineUpdated, DeadlineUpdatedPayload{
		Deadline:  &deadline,
		UpdatedAt: p.now(),
	})
}

// PublishHackathonUpdated announces a change to the hackathon copy.
func (p *Publisher) PublishHackathonUpdated(ctx context.Context, fields []string) error {
	return p.publish(ctx, EventTypeHackathonUpdated, HackathonUpdatedPayload{
		UpdatedAt: p.now(),
		Fields:    fields,
	})
}

func (p *Publisher) publish(ctx context.Context, eventType EventType, payload interface{}) error {
	data, err := encodeEnvelope(eventType, p.config.HackathonID, p.instanceID, p.now(), payload)
	if err != nil {
		return err
	}

	subject := p.config.Subject(eventType)
	ack, err := p.js.Publish(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	log.Debug().
		Str("subject", subject).
		Str("stream", ack.Stream).
		Uint64("sequence", ack.Sequence).
		Msg("published hackathon event")
	return nil
}

func encodeEnvelope(eventType EventType, hackathonID, source string, at time.Time, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	envelope := Envelope{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		HackathonID: hackathonID,
		Source:      source,
		Timestamp:   at,
		Payload:     raw,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}
