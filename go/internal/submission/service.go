package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mcdev12/hackclock/go/clients/hackathon_client"
	"github.com/mcdev12/hackclock/go/internal/alert"
	"github.com/mcdev12/hackclock/go/internal/countdown"
	"github.com/rs/zerolog/log"
)

var (
	// ErrSubmissionsClosed is returned when the local countdown has submit disabled.
	ErrSubmissionsClosed = errors.New("submissions are closed")
	ErrMissingField      = errors.New("missing submission field")
)

// Client posts and lists submissions.
type Client interface {
	Submit(ctx context.Context, submission hackathon_client.ProjectSubmission) (*hackathon_client.SubmitResponse, error)
	GetSubmissions(ctx context.Context) ([]hackathon_client.Submission, error)
	GetWinners(ctx context.Context) ([]hackathon_client.Winner, error)
}

// Engine is the part of the countdown engine that gates submission.
type Engine interface {
	Refresh(ctx context.Context) (countdown.Phase, error)
	Phase() countdown.Phase
}

type Service struct {
	client  Client
	engine  Engine
	alerter alert.Alerter
}

func NewService(client Client, engine Engine, alerter alert.Alerter) *Service {
	if alerter == nil {
		alerter = alert.Nop{}
	}
	return &Service{
		client:  client,
		engine:  engine,
		alerter: alerter,
	}
}

// Submit re-reads the deadline and posts the project only while the
// countdown is open. Server refusals are alerted with the server's message.
func (s *Service) Submit(ctx context.Context, submission hackathon_client.ProjectSubmission) (*hackathon_client.SubmitResponse, error) {
	if err := validate(submission); err != nil {
		s.alerter.Alert(alert.LevelDanger, "Email, GitHub repository and demo video are required")
		return nil, err
	}

	phase, err := s.engine.Refresh(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("deadline refresh before submit failed")
		phase = s.engine.Phase()
	}
	if countdown.SubmitDisabled(phase) {
		s.alerter.Alert(alert.LevelDanger, closedMessage(phase))
		return nil, fmt.Errorf("%w: phase %s", ErrSubmissionsClosed, phase.Kind)
	}

	resp, err := s.client.Submit(ctx, submission)
	if err != nil {
		log.Error().Err(err).Str("email", submission.Email).Msg("submission failed")
		msg := "An error occurred while submitting the form"
		if resp != nil && resp.Message != "" {
			msg = resp.Message
		}
		s.alerter.Alert(alert.LevelDanger, msg)
		return resp, err
	}

	s.alerter.Alert(alert.LevelSuccess, resp.Message)
	log.Info().Str("email", submission.Email).Msg("project submitted")
	return resp, nil
}

func validate(submission hackathon_client.ProjectSubmission) error {
	var missing []string
	if strings.TrimSpace(submission.Email) == "" {
		missing = append(missing, hackathon_client.FieldEmail)
	}
	if strings.TrimSpace(submission.GitHub) == "" {
		missing = append(missing, hackathon_client.FieldGitHub)
	}
	if strings.TrimSpace(submission.Video) == "" {
		missing = append(missing, hackathon_client.FieldVideo)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

func closedMessage(phase countdown.Phase) string {
	switch phase.Kind {
	case countdown.KindEnded:
		return "Submission deadline has passed"
	case countdown.KindNoDeadline:
		return "Submissions are not open: no deadline set"
	case countdown.KindInvalid:
		return "Submissions are not open: invalid deadline"
	default:
		return "Submissions are not open: the deadline could not be loaded"
	}
}

// Submissions lists submissions newest first, alerting on failure.
func (s *Service) Submissions(ctx context.Context) ([]hackathon_client.Submission, error) {
	submissions, err := s.client.GetSubmissions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error loading submissions")
		s.alerter.Alert(alert.LevelDanger, "Error loading submissions")
		return nil, err
	}
	return submissions, nil
}

// Winners lists the winners in finishing order, alerting on failure.
func (s *Service) Winners(ctx context.Context) ([]hackathon_client.Winner, error) {
	winners, err := s.client.GetWinners(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error loading winners")
		s.alerter.Alert(alert.LevelDanger, "Error loading winners")
		return nil, err
	}
	return winners, nil
}
