package hackathon_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
)

// HackathonUpdate is the admin form. Empty fields are not sent.
type HackathonUpdate struct {
	Deadline    string
	Title       string
	Description string
	Rules       []string
	Prizes      Prizes
}

type UpdateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrUpdateRejected is returned when the server answers with success=false.
var ErrUpdateRejected = errors.New("hackathon update rejected")

func (c *HackathonClient) UpdateHackathon(ctx context.Context, update HackathonUpdate) (*UpdateResponse, error) {
	body, contentType, err := encodeUpdate(update)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update form: %w", err)
	}

	respBody, err := c.Post(ctx, UpdateEndpoint, body, contentType)
	if err != nil {
		if msg := serverMessage(err); msg != "" {
			return nil, fmt.Errorf("failed to update hackathon: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("failed to update hackathon: %w", err)
	}

	var response UpdateResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(respBody))
	}
	if !response.Success {
		return &response, fmt.Errorf("%w: %s", ErrUpdateRejected, response.Message)
	}

	return &response, nil
}

func encodeUpdate(update HackathonUpdate) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct {
		name  string
		value string
	}{
		{FieldDeadline, update.Deadline},
		{FieldTitle, update.Title},
		{FieldDescription, update.Description},
		{FieldPrizeFirst, update.Prizes.First},
		{FieldPrizeSecond, update.Prizes.Second},
		{FieldPrizeThird, update.Prizes.Third},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	for _, rule := range update.Rules {
		if err := w.WriteField(FieldRules, rule); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
