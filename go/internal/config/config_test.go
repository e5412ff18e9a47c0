package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hackclock.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(Default(), *cfg); diff != "" {
		t.Errorf("Expected defaults (-want +got):\n%s", diff)
	}
	if cfg.Countdown.RegistrationOffsetDays != 0 {
		t.Errorf("Expected the registration line disabled by default, got offset %d", cfg.Countdown.RegistrationOffsetDays)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  url: https://hack.example.com
  timeout: 5s
  headers:
    Cookie: session=abc
countdown:
  tick_interval: 500ms
  ending_soon_window: 1h
  registration_offset_days: 3
  timezone: America/New_York
render:
  color: false
gateway:
  port: "9090"
nats:
  enabled: true
  url: nats://nats:4222
  hackathon_id: spring-2025
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.URL != "https://hack.example.com" || cfg.Server.Timeout != 5*time.Second {
		t.Errorf("Unexpected server config: %+v", cfg.Server)
	}
	if cfg.Server.Headers["Cookie"] != "session=abc" {
		t.Errorf("Expected cookie header, got %v", cfg.Server.Headers)
	}
	if cfg.Countdown.TickInterval != 500*time.Millisecond || cfg.Countdown.EndingSoonWindow != time.Hour {
		t.Errorf("Unexpected countdown durations: %+v", cfg.Countdown)
	}
	if cfg.Countdown.RegistrationOffsetDays != 3 {
		t.Errorf("Expected offset 3, got %d", cfg.Countdown.RegistrationOffsetDays)
	}
	if cfg.Countdown.DisplayLayout == "" {
		t.Error("Expected the default display layout to survive a partial file")
	}
	if cfg.Render.Color || cfg.Gateway.Port != "9090" {
		t.Errorf("Unexpected render/gateway config: %+v %+v", cfg.Render, cfg.Gateway)
	}

	w := cfg.Watch()
	if w.URL != "nats://nats:4222" || w.HackathonID != "spring-2025" || w.StreamName != "HACKATHON_EVENTS" {
		t.Errorf("Unexpected watch config: %+v", w)
	}

	loc, err := cfg.Location()
	if err != nil || loc.String() != "America/New_York" {
		t.Errorf("Unexpected location %v (%v)", loc, err)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  url: https://file.example.com\n")
	t.Setenv("HACKCLOCK_SERVER_URL", "https://env.example.com")
	t.Setenv("GATEWAY_PORT", "7000")
	t.Setenv("NATS_URL", "nats://env:4222")
	t.Setenv("HACKCLOCK_SESSION_COOKIE", "session=xyz")
	t.Setenv("HACKCLOCK_COLOR", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.URL != "https://env.example.com" {
		t.Errorf("Expected env server url, got %q", cfg.Server.URL)
	}
	if cfg.Gateway.Port != "7000" || cfg.NATS.URL != "nats://env:4222" {
		t.Errorf("Unexpected overrides: %+v %+v", cfg.Gateway, cfg.NATS)
	}
	if cfg.Server.Headers["Cookie"] != "session=xyz" || cfg.Render.Color {
		t.Errorf("Unexpected overrides: %+v %+v", cfg.Server.Headers, cfg.Render)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{"zero tick", "countdown:\n  tick_interval: 0s\n", "tick_interval must be positive"},
		{"unknown timezone", "countdown:\n  timezone: Mars/Olympus\n", "countdown.timezone"},
		{"empty server", "server:\n  url: \" \"\n", "server.url is required"},
		{"bad log level", "log:\n  level: loud\n", "log.level"},
		{"malformed yaml", "server: [", "failed to parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}
