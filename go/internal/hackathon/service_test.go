package hackathon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mcdev12/hackclock/go/clients/hackathon_client"
	"github.com/mcdev12/hackclock/go/internal/alert"
)

type fakeDetailsClient struct {
	details *hackathon_client.HackathonDetails
	err     error
}

func (f *fakeDetailsClient) GetHackathonDetails(context.Context) (*hackathon_client.HackathonDetails, error) {
	return f.details, f.err
}

func TestRefreshBuildsDerivedDeadlines(t *testing.T) {
	client := &fakeDetailsClient{details: &hackathon_client.HackathonDetails{
		Deadline: "March 10, 2025, 05:00 PM",
		Title:    "Spring Hack",
		Rules:    []string{"Be kind"},
	}}

	var rendered []Details
	svc := NewService(client, nil, Config{RegistrationOffsetDays: 3, Location: time.UTC})
	svc.Subscribe(DetailsSinkFunc(func(d Details) { rendered = append(rendered, d) }))

	got, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if want := "Submission Deadline: March 10, 2025, 05:00 PM"; got.DeadlineText != want {
		t.Errorf("Expected %q, got %q", want, got.DeadlineText)
	}
	if want := "Registration closes: March 7, 2025, 05:00 PM"; got.RegistrationText != want {
		t.Errorf("Expected %q, got %q", want, got.RegistrationText)
	}
	if len(rendered) != 1 || rendered[0].Title != "Spring Hack" {
		t.Errorf("Expected one render with the title, got %+v", rendered)
	}
}

func TestRefreshWithoutOffsetOrDeadline(t *testing.T) {
	client := &fakeDetailsClient{details: &hackathon_client.HackathonDetails{Title: "No date yet"}}
	svc := NewService(client, nil, Config{RegistrationOffsetDays: 2, Location: time.UTC})

	got, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got.DeadlineText != "" || got.RegistrationText != "" {
		t.Errorf("Expected no deadline text, got %q / %q", got.DeadlineText, got.RegistrationText)
	}
	if got.Deadline.Valid() {
		t.Error("Expected an unset deadline")
	}
}

func TestRefreshFailureKeepsPreviousDetails(t *testing.T) {
	client := &fakeDetailsClient{details: &hackathon_client.HackathonDetails{
		Deadline: "2025-03-10 17:00:00",
		Title:    "Spring Hack",
	}}

	var alerts []string
	svc := NewService(client, alert.Func(func(level alert.Level, msg string) {
		alerts = append(alerts, string(level)+": "+msg)
	}), Config{Location: time.UTC})

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	client.err = errors.New("boom")
	got, err := svc.Refresh(context.Background())
	if err == nil {
		t.Fatal("Expected an error")
	}
	if got == nil || got.Title != "Spring Hack" {
		t.Errorf("Expected previous details to be kept, got %+v", got)
	}
	if len(alerts) != 1 || alerts[0] != "danger: Error loading hackathon details" {
		t.Errorf("Unexpected alerts %v", alerts)
	}
}
