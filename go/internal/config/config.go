package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mcdev12/hackclock/go/clients/hackathon_client"
	"github.com/mcdev12/hackclock/go/internal/countdown"
	"github.com/mcdev12/hackclock/go/internal/watch"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "hackclock.yaml"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Countdown CountdownConfig `yaml:"countdown"`
	Render    RenderConfig    `yaml:"render"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	NATS      NATSConfig      `yaml:"nats"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	URL     string            `yaml:"url"`
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers"`
}

type CountdownConfig struct {
	TickInterval           time.Duration `yaml:"tick_interval"`
	EndingSoonWindow       time.Duration `yaml:"ending_soon_window"`
	RegistrationOffsetDays int           `yaml:"registration_offset_days"`
	Timezone               string        `yaml:"timezone"`
	DisplayLayout          string        `yaml:"display_layout"`
}

type RenderConfig struct {
	Color bool `yaml:"color"`
}

type GatewayConfig struct {
	Port string `yaml:"port"`
}

type NATSConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Stream        string `yaml:"stream"`
	SubjectPrefix string `yaml:"subject_prefix"`
	HackathonID   string `yaml:"hackathon_id"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	w := watch.DefaultConfig()
	return Config{
		Server: ServerConfig{
			URL:     hackathon_client.DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Countdown: CountdownConfig{
			TickInterval:           countdown.DefaultTickInterval,
			EndingSoonWindow:       countdown.DefaultEndingSoonWindow,
			RegistrationOffsetDays: 0,
			DisplayLayout:          countdown.DefaultDisplayLayout,
		},
		Render: RenderConfig{
			Color: true,
		},
		Gateway: GatewayConfig{
			Port: "8081",
		},
		NATS: NATSConfig{
			URL:           w.URL,
			Stream:        w.StreamName,
			SubjectPrefix: w.SubjectPrefix,
			HackathonID:   w.HackathonID,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = getEnv("HACKCLOCK_CONFIG", DefaultPath)
	}

	config := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyEnv() {
	c.Server.URL = getEnv("HACKCLOCK_SERVER_URL", c.Server.URL)
	c.Server.Timeout = getEnvAsDuration("HACKCLOCK_SERVER_TIMEOUT", c.Server.Timeout)
	if cookie := os.Getenv("HACKCLOCK_SESSION_COOKIE"); cookie != "" {
		if c.Server.Headers == nil {
			c.Server.Headers = make(map[string]string)
		}
		c.Server.Headers["Cookie"] = cookie
	}
	c.Countdown.Timezone = getEnv("HACKCLOCK_TIMEZONE", c.Countdown.Timezone)
	c.Countdown.TickInterval = getEnvAsDuration("HACKCLOCK_TICK_INTERVAL", c.Countdown.TickInterval)
	c.Countdown.RegistrationOffsetDays = getEnvAsInt("HACKCLOCK_REGISTRATION_OFFSET_DAYS", c.Countdown.RegistrationOffsetDays)
	c.Render.Color = getEnvAsBool("HACKCLOCK_COLOR", c.Render.Color)
	c.Gateway.Port = getEnv("GATEWAY_PORT", c.Gateway.Port)
	c.NATS.Enabled = getEnvAsBool("NATS_ENABLED", c.NATS.Enabled)
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.NATS.HackathonID = getEnv("HACKCLOCK_HACKATHON_ID", c.NATS.HackathonID)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.URL) == "" {
		errs = append(errs, errors.New("server.url is required"))
	}
	if c.Countdown.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("countdown.tick_interval must be positive, got %s", c.Countdown.TickInterval))
	}
	if c.Countdown.EndingSoonWindow < 0 {
		errs = append(errs, fmt.Errorf("countdown.ending_soon_window must not be negative, got %s", c.Countdown.EndingSoonWindow))
	}
	if c.Countdown.RegistrationOffsetDays < 0 {
		errs = append(errs, fmt.Errorf("countdown.registration_offset_days must not be negative, got %d", c.Countdown.RegistrationOffsetDays))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, errors.New("nats.url is required when nats is enabled"))
	}
	return errors.Join(errs...)
}

// Location resolves countdown.timezone. Empty means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Countdown.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Countdown.Timezone)
	if err != nil {
		return nil, fmt.Errorf("countdown.timezone %q: %w", c.Countdown.Timezone, err)
	}
	return loc, nil
}

// Watch returns the NATS watcher configuration.
func (c *Config) Watch() watch.Config {
	w := watch.DefaultConfig()
	w.URL = c.NATS.URL
	if c.NATS.Stream != "" {
		w.StreamName = c.NATS.Stream
	}
	if c.NATS.SubjectPrefix != "" {
		w.SubjectPrefix = c.NATS.SubjectPrefix
	}
	w.HackathonID = c.NATS.HackathonID
	return w
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
