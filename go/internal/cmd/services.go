package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/hackclock/go/clients/hackathon_client"
	"github.com/mcdev12/hackclock/go/internal/alert"
	"github.com/mcdev12/hackclock/go/internal/config"
	"github.com/mcdev12/hackclock/go/internal/countdown"
	"github.com/mcdev12/hackclock/go/internal/hackathon"
	"github.com/mcdev12/hackclock/go/internal/watch"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Config     *config.Config
	InstanceID string
	Location   *time.Location

	Client    *hackathon_client.HackathonClient
	Engine    *countdown.Engine
	Metrics   *countdown.CounterMetrics
	Details   *hackathon.Service
	Publisher *watch.Publisher
	Consumer  *watch.EventConsumer

	nc *nats.Conn
}

func setupServices(cfg *config.Config, alerter alert.Alerter) (*Services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// Client → engine → details
	client := hackathon_client.NewHackathonClient(cfg.Server.URL)
	client.SetTimeout(cfg.Server.Timeout)
	for key, value := range cfg.Server.Headers {
		client.SetHeader(key, value)
	}

	metrics := countdown.NewCounterMetrics()
	engine := countdown.NewEngine(client.DeadlineSource(),
		countdown.WithTickInterval(cfg.Countdown.TickInterval),
		countdown.WithEndingSoonWindow(cfg.Countdown.EndingSoonWindow),
		countdown.WithLocation(loc),
		countdown.WithDisplayLayout(cfg.Countdown.DisplayLayout),
		countdown.WithAlerter(alerter),
		countdown.WithMetrics(metrics),
	)

	details := hackathon.NewService(client, alerter, hackathon.Config{
		RegistrationOffsetDays: cfg.Countdown.RegistrationOffsetDays,
		Location:               loc,
		DisplayLayout:          cfg.Countdown.DisplayLayout,
	})

	return &Services{
		Config:     cfg,
		InstanceID: uuid.New().String()[:8],
		Location:   loc,
		Client:     client,
		Engine:     engine,
		Metrics:    metrics,
		Details:    details,
	}, nil
}

// connectNATS opens the JetStream connection when nats.enabled is set.
// withConsumer also creates this instance's event consumer.
func (s *Services) connectNATS(ctx context.Context, withConsumer bool) error {
	if !s.Config.NATS.Enabled {
		return nil
	}

	watchConfig := s.Config.Watch()
	nc, js, err := watch.Connect(ctx, watchConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	s.nc = nc
	s.Publisher = watch.NewPublisher(js, watchConfig, s.InstanceID)

	if !withConsumer {
		return nil
	}

	dispatcher := watch.NewDispatcher(s.Engine, s.Details, watchConfig.HackathonID, s.InstanceID)
	consumer, err := watch.NewEventConsumer(ctx, nc, js, dispatcher, watchConfig, s.InstanceID)
	if err != nil {
		return fmt.Errorf("failed to create event consumer: %w", err)
	}
	s.Consumer = consumer
	return nil
}

// startConsumer runs the event consumer in the background, if there is one.
func (s *Services) startConsumer(ctx context.Context) {
	if s.Consumer == nil {
		return
	}
	go func() {
		if err := s.Consumer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("event consumer failed")
		}
	}()
}

// loadInitial performs the startup loads: deadline then details.
func (s *Services) loadInitial(ctx context.Context) {
	if _, err := s.Engine.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial deadline load failed")
	}
	if _, err := s.Details.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial details load failed")
	}
}

func (s *Services) Close() {
	s.Engine.Close()
	if s.Consumer != nil {
		if err := s.Consumer.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop event consumer")
		}
		return
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
