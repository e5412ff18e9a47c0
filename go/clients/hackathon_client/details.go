package hackathon_client

import (
	"context"
	"encoding/json"
	"fmt"
)

type Prizes struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Third  string `json:"third"`
}

type HackathonDetails struct {
	Deadline    string   `json:"deadline"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Rules       []string `json:"rules"`
	Prizes      Prizes   `json:"prizes"`
}

func (c *HackathonClient) GetHackathonDetails(ctx context.Context) (*HackathonDetails, error) {
	body, err := c.Get(ctx, DetailsEndpoint)
	if err != nil {
		if msg := serverMessage(err); msg != "" {
			return nil, fmt.Errorf("failed to get hackathon details: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("failed to get hackathon details: %w", err)
	}

	var details HackathonDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return &details, nil
}
