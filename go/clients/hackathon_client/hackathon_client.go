package hackathon_client

import (
	"encoding/json"
	"errors"

	"github.com/mcdev12/hackclock/go/clients"
)

type HackathonClient struct {
	*clients.BaseClient
}

func NewHackathonClient(baseURL string) *HackathonClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HackathonClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}
}

// errorResponse is the body the server sends alongside a 5xx.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// serverMessage extracts the server's own explanation from an HTTP error, if any.
func serverMessage(err error) string {
	var httpErr *clients.HTTPError
	if !errors.As(err, &httpErr) {
		return ""
	}
	var body errorResponse
	if json.Unmarshal(httpErr.Body, &body) != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
