package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mcdev12/hackclock/go/clients/hackathon_client"
	"github.com/mcdev12/hackclock/go/internal/alert"
	"github.com/mcdev12/hackclock/go/internal/countdown"
	"github.com/mcdev12/hackclock/go/internal/hackathon"
)

func openUpdate(remaining time.Duration) countdown.Update {
	return countdown.Update{
		Phase: countdown.Phase{
			Kind:      countdown.KindOpen,
			Remaining: countdown.Decompose(remaining),
		},
		FormattedDeadline: "March 10, 2025, 05:00 PM",
	}
}

func endedUpdate() countdown.Update {
	return countdown.Update{
		Phase:             countdown.Phase{Kind: countdown.KindEnded},
		FormattedDeadline: "March 10, 2025, 05:00 PM",
	}
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestCountdownSinkWritesText(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)
	sink := term.CountdownSink()

	sink.Render(openUpdate(2 * time.Second))
	sink.Render(openUpdate(time.Second))
	sink.Render(endedUpdate())

	want := []string{"0d 0h 0m 2s", "0d 0h 0m 1s", "Ended"}
	if diff := cmp.Diff(want, lines(&buf)); diff != "" {
		t.Errorf("Unexpected countdown output (-want +got):\n%s", diff)
	}
}

func TestSinksAreEdgeTriggered(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)
	sinks := []countdown.Sink{term.SubmitSink(), term.MenuSink(), term.BannerSink()}

	for _, u := range []countdown.Update{openUpdate(2 * time.Second), openUpdate(time.Second), endedUpdate(), endedUpdate()} {
		for _, s := range sinks {
			s.Render(u)
		}
	}

	want := []string{
		"Submit: enabled",
		"Menu: Submit Project",
		"Submit: disabled",
		"Menu: Submit Project hidden",
		"Submissions are closed. The deadline was March 10, 2025, 05:00 PM.",
	}
	if diff := cmp.Diff(want, lines(&buf)); diff != "" {
		t.Errorf("Unexpected state lines (-want +got):\n%s", diff)
	}
}

func TestDetailsSink(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	term.DetailsSink().RenderDetails(hackathon.Details{
		Title:            "Spring Hack",
		DeadlineText:     "Submission Deadline: March 10, 2025, 05:00 PM",
		RegistrationText: "Registration closes: March 3, 2025, 05:00 PM",
		Rules:            []string{"Be kind"},
		Prizes:           hackathon_client.Prizes{First: "$1000"},
	})

	want := []string{
		"Spring Hack",
		"Submission Deadline: March 10, 2025, 05:00 PM",
		"Registration closes: March 3, 2025, 05:00 PM",
		"Rules",
		"  - Be kind",
		"  1st: $1000",
	}
	if diff := cmp.Diff(want, lines(&buf)); diff != "" {
		t.Errorf("Unexpected details output (-want +got):\n%s", diff)
	}
}

func TestAlert(t *testing.T) {
	var buf bytes.Buffer
	var alerter alert.Alerter = NewTerminal(&buf, false)

	alerter.Alert(alert.LevelDanger, "Error loading deadline")

	if got := buf.String(); got != "[danger] Error loading deadline\n" {
		t.Errorf("Unexpected alert output %q", got)
	}
}

func TestLiveCountdownRewritesLine(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, true)
	sink := term.CountdownSink()

	sink.Render(openUpdate(2 * time.Second))
	term.Alert(alert.LevelInfo, "hello")

	out := buf.String()
	if !strings.HasPrefix(out, "\r") {
		t.Errorf("Expected the status line to start with a carriage return, got %q", out)
	}
	if !strings.Contains(out, "0d 0h 0m 2s") || !strings.Contains(out, "hello") {
		t.Errorf("Missing content in %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("Expected the alert to end the status line, got %q", out)
	}
}
