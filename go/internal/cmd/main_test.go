package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T, serverURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hackclock.yaml")
	body := fmt.Sprintf("server:\n  url: %s\ncountdown:\n  timezone: UTC\n  registration_offset_days: 7\nrender:\n  color: false\n", serverURL)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDetailsCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hackathon-details" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"title": "Spring Hack", "deadline": "2025-03-10 17:00:00", "rules": [], "prizes": {}}`))
	}))
	defer server.Close()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"details", "--config", writeTestConfig(t, server.URL)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("details failed: %v", err)
	}

	for _, want := range []string{
		"Spring Hack",
		"Submission Deadline: March 10, 2025, 05:00 PM",
		"Registration closes: March 3, 2025, 05:00 PM",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestUpdateCommandRejectsInvalidDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Unexpected request to %s", r.URL.Path)
	}))
	defer server.Close()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"update", "--config", writeTestConfig(t, server.URL), "--deadline", "someday"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("Expected an error for an unparsable deadline")
	}
	if !strings.Contains(out.String(), "Invalid deadline: someday") {
		t.Errorf("Expected the alert in output, got %q", out.String())
	}
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hackclock.yaml")
	if err := os.WriteFile(path, []byte("countdown:\n  tick_interval: -1s\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"details", "--config", path})
	if err := cmd.Execute(); err == nil {
		t.Fatal("Expected config validation to fail")
	}
}

func newSubmitServer(t *testing.T, deadline string, submit http.HandlerFunc) (*httptest.Server, *int) {
	t.Helper()
	submits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/get_deadline", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"deadline": %q}`, deadline)
	})
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		submits++
		submit(w, r)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &submits
}

var submitArgs = []string{"--email", "team@example.com", "--github", "https://github.com/team/project", "--video", "https://video.example.com/demo"}

func TestSubmitCommandRefusedAfterDeadline(t *testing.T) {
	server, submits := newSubmitServer(t, "2000-01-01 00:00:00", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "message": "Submission successful!"}`))
	})

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"submit", "--config", writeTestConfig(t, server.URL)}, submitArgs...))

	if err := cmd.Execute(); err == nil {
		t.Fatal("Expected submit to be refused after the deadline")
	}
	if *submits != 0 {
		t.Errorf("Expected no submit request, got %d", *submits)
	}
	if !strings.Contains(out.String(), "[danger] Submission deadline has passed") {
		t.Errorf("Expected the closed alert in output, got %q", out.String())
	}
}

func TestSubmitCommandShowsServerMessage(t *testing.T) {
	server, submits := newSubmitServer(t, "2999-01-01 00:00:00", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success": false, "message": "Email already used for submission"}`))
	})

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"submit", "--config", writeTestConfig(t, server.URL)}, submitArgs...))

	if err := cmd.Execute(); err == nil {
		t.Fatal("Expected the server refusal to fail the command")
	}
	if *submits != 1 {
		t.Errorf("Expected one submit request, got %d", *submits)
	}
	if !strings.Contains(out.String(), "[danger] Email already used for submission") {
		t.Errorf("Expected the server message in output, got %q", out.String())
	}
}

func TestWinnersCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/winners" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"winners": [{"team_name": "Alpha", "project_name": "Rocket"}, {"team_name": "Beta", "project_name": "Boat"}]}`))
	}))
	defer server.Close()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"winners", "--config", writeTestConfig(t, server.URL)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("winners failed: %v", err)
	}
	for _, want := range []string{"1st Place: Alpha, Rocket", "2nd Place: Beta, Boat"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestMissingEnvFileLoggedThroughConsoleWriter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": "Spring Hack", "deadline": "2025-03-10 17:00:00"}`))
	}))
	defer server.Close()
	config := writeTestConfig(t, server.URL)
	chdirTemp := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(chdirTemp); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })

	tests := []struct {
		name      string
		args      []string
		expectEnv bool
	}{
		{name: "info level hides the message", args: nil, expectEnv: false},
		{name: "debug level shows it formatted", args: []string{"--log-level", "debug"}, expectEnv: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			cmd.SetArgs(append([]string{"details", "--config", config}, tt.args...))

			if err := cmd.Execute(); err != nil {
				t.Fatalf("details failed: %v", err)
			}
			logged := errOut.String()
			if got := strings.Contains(logged, "could not load .env file"); got != tt.expectEnv {
				t.Errorf("Expected .env message logged=%v, got %q", tt.expectEnv, logged)
			}
			for _, line := range strings.Split(logged, "\n") {
				if strings.HasPrefix(line, "{") {
					t.Errorf("Expected console formatted logs, got raw JSON line %q", line)
				}
			}
		})
	}
}
