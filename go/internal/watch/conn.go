package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// Connect dials NATS and opens a JetStream context, creating the event stream if needed.
func Connect(ctx context.Context, config Config) (*nats.Conn, jetstream.JetStream, error) {
	opts := []nats.Option{
		nats.Name("hackclock"),
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}

	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        config.StreamName,
		Description: "Hackathon deadline and metadata changes",
		Subjects:    []string{config.FilterSubject()},
		MaxAge:      24 * time.Hour,
	}); err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("ensure stream %s: %w", config.StreamName, err)
	}

	log.Info().
		Str("url", nc.ConnectedUrl()).
		Str("stream", config.StreamName).
		Msg("connected to NATS JetStream")

	return nc, js, nil
}
