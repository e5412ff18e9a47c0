package hackathon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mcdev12/hackclock/go/clients/hackathon_client"
	"github.com/mcdev12/hackclock/go/internal/alert"
	"github.com/mcdev12/hackclock/go/internal/countdown"
	"github.com/rs/zerolog/log"
)

// DetailsClient is what the service needs from the hackathon API.
type DetailsClient interface {
	GetHackathonDetails(ctx context.Context) (*hackathon_client.HackathonDetails, error)
}

// Details is the display-ready view of the hackathon metadata.
type Details struct {
	Title                string
	Description          string
	Rules                []string
	Prizes               hackathon_client.Prizes
	Deadline             countdown.Deadline
	RegistrationDeadline countdown.Deadline
	DeadlineText         string
	RegistrationText     string
}

// DetailsSink renders refreshed details.
type DetailsSink interface {
	RenderDetails(details Details)
}

// DetailsSinkFunc adapts a function to a DetailsSink.
type DetailsSinkFunc func(details Details)

func (f DetailsSinkFunc) RenderDetails(details Details) {
	f(details)
}

// Config controls how deadlines are derived and shown.
type Config struct {
	RegistrationOffsetDays int
	Location               *time.Location
	DisplayLayout          string
}

// Service keeps the secondary deadline displays in sync with /hackathon-details.
type Service struct {
	client  DetailsClient
	alerter alert.Alerter
	config  Config

	mu         sync.Mutex
	sinks      []DetailsSink
	current    *Details
	generation uint64
}

func NewService(client DetailsClient, alerter alert.Alerter, config Config) *Service {
	if alerter == nil {
		alerter = alert.Nop{}
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.DisplayLayout == "" {
		config.DisplayLayout = countdown.DefaultDisplayLayout
	}
	return &Service{
		client:  client,
		alerter: alerter,
		config:  config,
	}
}

func (s *Service) Subscribe(sinks ...DetailsSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sinks...)
}

// Current returns the last successfully refreshed details, or nil.
func (s *Service) Current() *Details {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Refresh fetches the details and pushes them to every sink. On failure the
// previous details stay in place and the user is alerted.
func (s *Service) Refresh(ctx context.Context) (*Details, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	raw, err := s.client.GetHackathonDetails(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		log.Debug().Uint64("generation", gen).Msg("discarding superseded details refresh")
		return s.current, countdown.ErrSuperseded
	}
	if err != nil {
		log.Error().Err(err).Msg("error loading hackathon details")
		s.alerter.Alert(alert.LevelDanger, "Error loading hackathon details")
		return s.current, fmt.Errorf("refresh hackathon details: %w", err)
	}

	details := s.build(raw)
	s.current = &details
	for _, sink := range s.sinks {
		sink.RenderDetails(details)
	}
	return s.current, nil
}

func (s *Service) build(raw *hackathon_client.HackathonDetails) Details {
	deadline := countdown.ParseDeadline(raw.Deadline, s.config.Location)
	details := Details{
		Title:       raw.Title,
		Description: raw.Description,
		Rules:       raw.Rules,
		Prizes:      raw.Prizes,
		Deadline:    deadline,
	}

	if deadline.Valid() {
		details.DeadlineText = "Submission Deadline: " + deadline.Format(s.config.DisplayLayout, s.config.Location)
		if s.config.RegistrationOffsetDays > 0 {
			details.RegistrationDeadline = deadline.Derive(s.config.RegistrationOffsetDays)
			details.RegistrationText = "Registration closes: " +
				details.RegistrationDeadline.Format(s.config.DisplayLayout, s.config.Location)
		}
	}
	return details
}
