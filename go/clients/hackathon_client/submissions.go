package hackathon_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"time"

	"github.com/mcdev12/hackclock/go/internal/countdown"
)

// ProjectSubmission is the submit form.
type ProjectSubmission struct {
	Email  string
	GitHub string
	Video  string
}

type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrSubmissionRejected is returned when the server refuses a submission,
// e.g. after the deadline or for an email that already submitted.
var ErrSubmissionRejected = errors.New("submission rejected")

// Submission is one entry of the public submissions list.
type Submission struct {
	TeamName    string `json:"team_name"`
	ProjectName string `json:"project_name"`
	Email       string `json:"email"`
	GitHubRepo  string `json:"github_repo"`
	DemoVideo   string `json:"demo_video"`
	LiveDemoURL string `json:"live_demo_url"`
	SubmittedAt string `json:"submitted_at"`
}

type SubmissionsResponse struct {
	Submissions []Submission `json:"submissions"`
}

// Winner is listed in finishing order; the first entry is first place.
type Winner struct {
	TeamName    string `json:"team_name"`
	ProjectName string `json:"project_name"`
}

type WinnersResponse struct {
	Winners []Winner `json:"winners"`
}

// Submit posts a project. A refusal comes back as ErrSubmissionRejected with
// the server's message in the returned response.
func (c *HackathonClient) Submit(ctx context.Context, submission ProjectSubmission) (*SubmitResponse, error) {
	body, contentType, err := encodeSubmission(submission)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission form: %w", err)
	}

	respBody, err := c.Post(ctx, SubmitEndpoint, body, contentType)
	if err != nil {
		if msg := serverMessage(err); msg != "" {
			return &SubmitResponse{Message: msg}, fmt.Errorf("%w: %s: %w", ErrSubmissionRejected, msg, err)
		}
		return nil, fmt.Errorf("failed to submit project: %w", err)
	}

	var response SubmitResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(respBody))
	}
	if !response.Success {
		return &response, fmt.Errorf("%w: %s", ErrSubmissionRejected, response.Message)
	}

	return &response, nil
}

func encodeSubmission(submission ProjectSubmission) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct {
		name  string
		value string
	}{
		{FieldEmail, submission.Email},
		{FieldGitHub, submission.GitHub},
		{FieldVideo, submission.Video},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// GetSubmissions returns the submissions newest first. Entries whose
// timestamp cannot be read keep their order at the end.
func (c *HackathonClient) GetSubmissions(ctx context.Context) ([]Submission, error) {
	body, err := c.Get(ctx, SubmissionsEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}

	var response SubmissionsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	submissions := response.Submissions
	sort.SliceStable(submissions, func(i, j int) bool {
		ti, okI := submittedAt(submissions[i])
		tj, okJ := submittedAt(submissions[j])
		if okI != okJ {
			return okI
		}
		return okI && ti.After(tj)
	})
	return submissions, nil
}

// submittedAt reads the timestamp in any layout the deadline parser knows,
// which covers both the storage format and the RFC 1123 form jsonify emits.
func submittedAt(s Submission) (time.Time, bool) {
	d := countdown.ParseDeadline(s.SubmittedAt, time.UTC)
	return d.At, d.Valid()
}

func (c *HackathonClient) GetWinners(ctx context.Context) ([]Winner, error) {
	body, err := c.Get(ctx, WinnersEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get winners: %w", err)
	}

	var response WinnersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	return response.Winners, nil
}
