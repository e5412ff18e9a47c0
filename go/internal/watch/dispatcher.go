package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcdev12/hackclock/go/internal/countdown"
	"github.com/mcdev12/hackclock/go/internal/hackathon"
	"github.com/rs/zerolog/log"
)

// Reloader is the part of the countdown engine the watcher drives.
type Reloader interface {
	Reload(raw string) countdown.Phase
	Refresh(ctx context.Context) (countdown.Phase, error)
}

// DetailsRefresher re-reads the hackathon copy.
type DetailsRefresher interface {
	Refresh(ctx context.Context) (*hackathon.Details, error)
}

// Dispatcher applies bus events to the local engine and details.
type Dispatcher struct {
	engine      Reloader
	details     DetailsRefresher
	hackathonID string
	instanceID  string
}

func NewDispatcher(engine Reloader, details DetailsRefresher, hackathonID, instanceID string) *Dispatcher {
	return &Dispatcher{
		engine:      engine,
		details:     details,
		hackathonID: hackathonID,
		instanceID:  instanceID,
	}
}

// Dispatch handles one envelope. Events for other hackathons and events this
// instance published are skipped. Fetch failures were already alerted by the
// engine and are not returned, so the message is not redelivered.
func (d *Dispatcher) Dispatch(ctx context.Context, envelope Envelope) error {
	if envelope.HackathonID != "" && d.hackathonID != "" && envelope.HackathonID != d.hackathonID {
		log.Debug().Str("hackathon_id", envelope.HackathonID).Msg("ignoring event for another hackathon")
		return nil
	}
	if envelope.Source != "" && envelope.Source == d.instanceID {
		log.Debug().Str("event_id", envelope.EventID).Msg("ignoring own event")
		return nil
	}

	switch envelope.EventType {
	case EventTypeDeadlineUpdated:
		var payload DeadlineUpdatedPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal DeadlineUpdated payload: %w", err)
		}
		return d.handleDeadlineUpdated(ctx, payload)

	case EventTypeHackathonUpdated:
		var payload HackathonUpdatedPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal HackathonUpdated payload: %w", err)
		}
		return d.handleHackathonUpdated(ctx, payload)

	default:
		log.Warn().
			Str("event_type", string(envelope.EventType)).
			Str("event_id", envelope.EventID).
			Msg("unknown event type - ignoring")
		return nil
	}
}

func (d *Dispatcher) handleDeadlineUpdated(ctx context.Context, payload DeadlineUpdatedPayload) error {
	if payload.Deadline != nil {
		phase := d.engine.Reload(*payload.Deadline)
		log.Info().
			Str("deadline", *payload.Deadline).
			Str("phase", string(phase.Kind)).
			Msg("deadline reloaded from event")
	} else if err := ignoreHandled(d.engine.Refresh(ctx)); err != nil {
		return err
	}

	if d.details != nil {
		if _, err := d.details.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("details refresh after deadline update failed")
		}
	}
	return nil
}

func (d *Dispatcher) handleHackathonUpdated(ctx context.Context, payload HackathonUpdatedPayload) error {
	log.Info().Strs("fields", payload.Fields).Msg("hackathon updated - refreshing")

	if err := ignoreHandled(d.engine.Refresh(ctx)); err != nil {
		return err
	}
	if d.details != nil {
		if _, err := d.details.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("details refresh after hackathon update failed")
		}
	}
	return nil
}

// ignoreHandled drops errors the engine already surfaced to the user.
func ignoreHandled(_ countdown.Phase, err error) error {
	if err == nil || errors.Is(err, countdown.ErrFetchFailure) || errors.Is(err, countdown.ErrSuperseded) {
		return nil
	}
	return err
}
