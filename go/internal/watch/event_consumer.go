package watch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// EventConsumer feeds hackathon events from JetStream into a Dispatcher.
type EventConsumer struct {
	nc         *nats.Conn
	js         jetstream.JetStream
	consumer   jetstream.Consumer
	dispatcher *Dispatcher
	config     Config
	name       string
}

// NewEventConsumer creates a per-instance consumer on the event stream.
// It is removed by the server after InactiveThreshold without a listener.
func NewEventConsumer(ctx context.Context, nc *nats.Conn, js jetstream.JetStream, dispatcher *Dispatcher, config Config, instanceID string) (*EventConsumer, error) {
	ec := &EventConsumer{
		nc:         nc,
		js:         js,
		dispatcher: dispatcher,
		config:     config,
		name:       "hackclock-" + instanceID,
	}

	if err := ec.ensureConsumer(ctx); err != nil {
		return nil, fmt.Errorf("ensure consumer: %w", err)
	}
	return ec, nil
}

func (ec *EventConsumer) ensureConsumer(ctx context.Context) error {
	stream, err := ec.js.Stream(ctx, ec.config.StreamName)
	if err != nil {
		return fmt.Errorf("get stream: %w", err)
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:              ec.name,
		Description:       "hackclock deadline watcher",
		FilterSubject:     ec.config.FilterSubject(),
		DeliverPolicy:     jetstream.DeliverNewPolicy,
		AckPolicy:         jetstream.AckExplicitPolicy,
		MaxDeliver:        ec.config.MaxDeliver,
		AckWait:           ec.config.AckWait,
		MaxAckPending:     ec.config.MaxAckPending,
		InactiveThreshold: ec.config.InactiveThreshold,
		ReplayPolicy:      jetstream.ReplayInstantPolicy,
	})
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}

	log.Info().
		Str("consumer", ec.name).
		Str("stream", ec.config.StreamName).
		Msg("created JetStream consumer")

	ec.consumer = consumer
	return nil
}

// Start consumes events until ctx is cancelled.
func (ec *EventConsumer) Start(ctx context.Context) error {
	log.Info().
		Str("consumer", ec.name).
		Str("subject", ec.config.FilterSubject()).
		Msg("starting hackathon event consumer")

	messageCh := make(chan jetstream.Msg, 16)
	consumeCtx, err := ec.consumer.Consume(func(msg jetstream.Msg) {
		select {
		case messageCh <- msg:
		case <-ctx.Done():
			msg.Nak()
		}
	})
	if err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}
	defer consumeCtx.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("event consumer shutting down")
			return nil
		case msg := <-messageCh:
			if err := ec.processMessage(ctx, msg.Data()); err != nil {
				log.Error().
					Err(err).
					Str("subject", msg.Subject()).
					Msg("failed to process message")
				if nakErr := msg.Nak(); nakErr != nil {
					log.Error().Err(nakErr).Msg("failed to NAK message")
				}
				continue
			}
			if ackErr := msg.Ack(); ackErr != nil {
				log.Error().Err(ackErr).Msg("failed to ACK message")
			}
		}
	}
}

func (ec *EventConsumer) processMessage(ctx context.Context, data []byte) error {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("unmarshal event envelope: %w", err)
	}

	log.Debug().
		Str("event_id", envelope.EventID).
		Str("event_type", string(envelope.EventType)).
		Str("hackathon_id", envelope.HackathonID).
		Msg("processing hackathon event")

	return ec.dispatcher.Dispatch(ctx, envelope)
}

// Connected reports whether the NATS connection is up.
func (ec *EventConsumer) Connected() bool {
	return ec.nc != nil && ec.nc.IsConnected()
}

// Stop closes the NATS connection.
func (ec *EventConsumer) Stop() error {
	log.Info().Msg("stopping event consumer")
	if ec.nc != nil {
		ec.nc.Close()
	}
	return nil
}
