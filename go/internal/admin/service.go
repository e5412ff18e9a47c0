package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/mcdev12/hackclock/go/clients/hackathon_client"
	"github.com/mcdev12/hackclock/go/internal/alert"
	"github.com/mcdev12/hackclock/go/internal/countdown"
	"github.com/mcdev12/hackclock/go/internal/hackathon"
	"github.com/rs/zerolog/log"
)

// UpdateClient posts the admin form to the server.
type UpdateClient interface {
	UpdateHackathon(ctx context.Context, update hackathon_client.HackathonUpdate) (*hackathon_client.UpdateResponse, error)
}

// Engine is the part of the countdown engine an update drives.
type Engine interface {
	Reload(raw string) countdown.Phase
	Refresh(ctx context.Context) (countdown.Phase, error)
	Phase() countdown.Phase
}

// DetailsRefresher re-reads the hackathon copy after an update.
type DetailsRefresher interface {
	Refresh(ctx context.Context) (*hackathon.Details, error)
}

// Publisher tells other running clients about the change.
type Publisher interface {
	PublishDeadlineUpdated(ctx context.Context, deadline string) error
	PublishHackathonUpdated(ctx context.Context, fields []string) error
}

// Service performs admin updates and keeps the local countdown in step.
type Service struct {
	client    UpdateClient
	engine    Engine
	details   DetailsRefresher
	publisher Publisher
	alerter   alert.Alerter
	location  *time.Location
}

// NewService wires the update flow. details and publisher may be nil.
func NewService(client UpdateClient, engine Engine, details DetailsRefresher, publisher Publisher, alerter alert.Alerter, location *time.Location) *Service {
	if alerter == nil {
		alerter = alert.Nop{}
	}
	if location == nil {
		location = time.Local
	}
	return &Service{
		client:    client,
		engine:    engine,
		details:   details,
		publisher: publisher,
		alerter:   alerter,
		location:  location,
	}
}

// Update sends the form and, once the server accepts it, reloads the engine
// with the new deadline, or refreshes it from the server when none was given. Server failures are alerted and leave the engine untouched.
func (s *Service) Update(ctx context.Context, update hackathon_client.HackathonUpdate) (countdown.Phase, error) {
	var normalized string
	if update.Deadline != "" {
		deadline := countdown.ParseDeadline(update.Deadline, s.location)
		if !deadline.Valid() {
			s.alerter.Alert(alert.LevelDanger, "Invalid deadline: "+update.Deadline)
			return s.engine.Phase(), fmt.Errorf("deadline %q: %w", update.Deadline, countdown.ErrParseFailure)
		}
		normalized = deadline.Storage(s.location)
		update.Deadline = normalized
	}

	resp, err := s.client.UpdateHackathon(ctx, update)
	if err != nil {
		log.Error().Err(err).Msg("hackathon update failed")
		msg := "An error occurred while updating the hackathon"
		if resp != nil && resp.Message != "" {
			msg = resp.Message
		}
		s.alerter.Alert(alert.LevelDanger, msg)
		return s.engine.Phase(), fmt.Errorf("update hackathon: %w", err)
	}

	var phase countdown.Phase
	if normalized != "" {
		phase = s.engine.Reload(normalized)
	} else {
		// The deadline was left as is; re-read it so the caller sees a settled phase.
		phase, err = s.engine.Refresh(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("deadline refresh after update failed")
			phase = s.engine.Phase()
		}
	}

	if s.details != nil {
		if _, err := s.details.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("details refresh after update failed")
		}
	}

	s.announce(ctx, normalized, changedFields(update))

	message := "Hackathon updated"
	if resp.Message != "" {
		message = resp.Message
	}
	s.alerter.Alert(alert.LevelSuccess, message)

	log.Info().
		Str("deadline", normalized).
		Str("phase", string(phase.Kind)).
		Msg("hackathon updated")
	return phase, nil
}

// announce publishes the change; failures are logged, the update already succeeded.
func (s *Service) announce(ctx context.Context, deadline string, fields []string) {
	if s.publisher == nil {
		return
	}
	if deadline != "" {
		if err := s.publisher.PublishDeadlineUpdated(ctx, deadline); err != nil {
			log.Error().Err(err).Msg("failed to publish DeadlineUpdated event")
		}
	}
	if len(fields) > 0 {
		if err := s.publisher.PublishHackathonUpdated(ctx, fields); err != nil {
			log.Error().Err(err).Msg("failed to publish HackathonUpdated event")
		}
	}
}

func changedFields(update hackathon_client.HackathonUpdate) []string {
	var fields []string
	if update.Title != "" {
		fields = append(fields, hackathon_client.FieldTitle)
	}
	if update.Description != "" {
		fields = append(fields, hackathon_client.FieldDescription)
	}
	if len(update.Rules) > 0 {
		fields = append(fields, hackathon_client.FieldRules)
	}
	if update.Prizes != (hackathon_client.Prizes{}) {
		fields = append(fields, "prizes")
	}
	return fields
}
