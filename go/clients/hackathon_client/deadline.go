package hackathon_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcdev12/hackclock/go/internal/countdown"
)

type DeadlineResponse struct {
	Deadline *string `json:"deadline"`
}

// Value returns the raw deadline, empty when the server sent null or nothing.
func (r DeadlineResponse) Value() string {
	if r.Deadline == nil {
		return ""
	}
	return *r.Deadline
}

func (c *HackathonClient) GetDeadline(ctx context.Context) (*DeadlineResponse, error) {
	body, err := c.Get(ctx, DeadlineEndpoint)
	if err != nil {
		if msg := serverMessage(err); msg != "" {
			return nil, fmt.Errorf("failed to get deadline: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("failed to get deadline: %w", err)
	}

	var response DeadlineResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return &response, nil
}

// DeadlineSource exposes the deadline endpoint to the countdown engine.
func (c *HackathonClient) DeadlineSource() countdown.Source {
	return countdown.SourceFunc(func(ctx context.Context) (string, error) {
		resp, err := c.GetDeadline(ctx)
		if err != nil {
			return "", err
		}
		return resp.Value(), nil
	})
}
