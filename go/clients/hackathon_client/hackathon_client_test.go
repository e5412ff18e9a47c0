package hackathon_client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcdev12/hackclock/go/clients"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *HackathonClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHackathonClient(server.URL)
}

func TestGetDeadline(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"value", `{"deadline": "2025-01-01 00:00:00"}`, "2025-01-01 00:00:00"},
		{"null", `{"deadline": null}`, ""},
		{"missing", `{}`, ""},
		{"empty", `{"deadline": ""}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != DeadlineEndpoint {
					t.Errorf("Expected path %s, got %s", DeadlineEndpoint, r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			got, err := client.DeadlineSource().FetchDeadline(context.Background())
			if err != nil {
				t.Fatalf("FetchDeadline failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGetDeadlineServerError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Could not read deadline"}`))
	})

	_, err := client.GetDeadline(context.Background())
	if err == nil {
		t.Fatal("Expected an error for a 500 response")
	}

	var httpErr *clients.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected a wrapped HTTPError with status 500, got %v", err)
	}
	if !strings.Contains(err.Error(), "Could not read deadline") {
		t.Errorf("Expected the server message in %q", err.Error())
	}
}

func TestGetDeadlineMalformedBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	})

	if _, err := client.GetDeadline(context.Background()); err == nil {
		t.Fatal("Expected an error for a non-JSON body")
	}
}

func TestGetHackathonDetails(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"deadline": "March 10, 2025, 05:00 PM",
			"title": "Spring Hack",
			"description": "Build something",
			"rules": ["Teams of four", "Original work"],
			"prizes": {"first": "$1000", "second": "$500", "third": "$250"}
		}`))
	})

	got, err := client.GetHackathonDetails(context.Background())
	if err != nil {
		t.Fatalf("GetHackathonDetails failed: %v", err)
	}

	want := &HackathonDetails{
		Deadline:    "March 10, 2025, 05:00 PM",
		Title:       "Spring Hack",
		Description: "Build something",
		Rules:       []string{"Teams of four", "Original work"},
		Prizes:      Prizes{First: "$1000", Second: "$500", Third: "$250"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unexpected details (-want +got):\n%s", diff)
	}
}

func TestUpdateHackathonSendsMultipartForm(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != UpdateEndpoint {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Cookie") != "session=abc" {
			t.Errorf("Expected configured header to be sent, got %q", r.Header.Get("Cookie"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Failed to parse multipart form: %v", err)
		}
		if got := r.FormValue(FieldDeadline); got != "2025-03-10 17:00:00" {
			t.Errorf("Unexpected deadline field %q", got)
		}
		if got := r.MultipartForm.Value[FieldRules]; len(got) != 2 {
			t.Errorf("Expected two rules, got %v", got)
		}
		if _, ok := r.MultipartForm.Value[FieldDescription]; ok {
			t.Error("Expected empty description not to be sent")
		}
		w.Write([]byte(`{"success": true, "message": "Hackathon updated"}`))
	})
	client.SetHeader("Cookie", "session=abc")

	resp, err := client.UpdateHackathon(context.Background(), HackathonUpdate{
		Deadline: "2025-03-10 17:00:00",
		Title:    "Spring Hack",
		Rules:    []string{"Teams of four", "Original work"},
		Prizes:   Prizes{First: "$1000"},
	})
	if err != nil {
		t.Fatalf("UpdateHackathon failed: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success")
	}
}

func TestUpdateHackathonRejected(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "message": "Invalid date format"}`))
	})

	_, err := client.UpdateHackathon(context.Background(), HackathonUpdate{Deadline: "x"})
	if !errors.Is(err, ErrUpdateRejected) {
		t.Fatalf("Expected ErrUpdateRejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid date format") {
		t.Errorf("Expected the server message in %q", err.Error())
	}
}
