package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcdev12/hackclock/go/clients/hackathon_client"
)

func TestOrdinal(t *testing.T) {
	tests := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd", 24: "24th",
		101: "101st", 111: "111th", 112: "112th",
	}
	for n, want := range tests {
		if got := Ordinal(n); got != want {
			t.Errorf("Ordinal(%d): expected %q, got %q", n, want, got)
		}
	}
}

func TestFormatWinners(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{}, false)
	got := term.FormatWinners([]hackathon_client.Winner{
		{TeamName: "Alpha", ProjectName: "Rocket"},
		{TeamName: "Beta", ProjectName: "Boat"},
		{TeamName: "Gamma", ProjectName: "Car"},
		{TeamName: "Delta", ProjectName: "Bike"},
	})
	want := []string{
		"1st Place: Alpha, Rocket",
		"2nd Place: Beta, Boat",
		"3rd Place: Gamma, Car",
		"4th Place: Delta, Bike",
	}
	if diff := cmp.Diff(want, strings.Split(got, "\n")); diff != "" {
		t.Errorf("Unexpected winners (-want +got):\n%s", diff)
	}
}

func TestFormatListingsEmpty(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{}, false)
	if got := term.FormatWinners(nil); got != NoWinnersText {
		t.Errorf("Expected %q, got %q", NoWinnersText, got)
	}
	if got := term.FormatSubmissions(nil); got != NoSubmissionsText {
		t.Errorf("Expected %q, got %q", NoSubmissionsText, got)
	}
}

func TestFormatSubmissions(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{}, false)
	got := term.FormatSubmissions([]hackathon_client.Submission{
		{TeamName: "Alpha", ProjectName: "Rocket", GitHubRepo: "https://github.com/alpha/rocket", SubmittedAt: "2025-03-10 09:00:00"},
		{TeamName: "Beta", ProjectName: "Boat", Email: "beta@example.com"},
	})
	want := []string{
		"Alpha: Rocket",
		"  GitHub: https://github.com/alpha/rocket",
		"  Submitted: 2025-03-10 09:00:00",
		"",
		"Beta: Boat",
		"  Email: beta@example.com",
	}
	if diff := cmp.Diff(want, strings.Split(got, "\n")); diff != "" {
		t.Errorf("Unexpected submissions (-want +got):\n%s", diff)
	}
}
