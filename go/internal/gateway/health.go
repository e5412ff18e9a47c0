package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/mcdev12/hackclock/go/internal/countdown"
	"github.com/rs/zerolog/log"
)

// NATSStatus reports the health of the update watcher's connection.
type NATSStatus interface {
	Connected() bool
}

type HealthStatus struct {
	Healthy        bool           `json:"healthy"`
	Phase          countdown.Kind `json:"phase"`
	LastUpdate     *time.Time     `json:"last_update,omitempty"`
	NATSEnabled    bool           `json:"nats_enabled"`
	NATSConnected  bool           `json:"nats_connected"`
	ListenerActive bool           `json:"listener_active"`
	Connections    int            `json:"connections"`
	Errors         []string       `json:"errors"`
}

// EmissionSource reports the last update pushed to clients.
type EmissionSource interface {
	Last() (countdown.Update, bool)
}

type HealthChecker struct {
	state     StateProvider
	emissions EmissionSource
	nats      NATSStatus
	manager   *ConnectionManager
	listening *atomic.Bool
}

func NewHealthChecker(state StateProvider, emissions EmissionSource, nats NATSStatus, manager *ConnectionManager, listening *atomic.Bool) *HealthChecker {
	return &HealthChecker{
		state:     state,
		emissions: emissions,
		nats:      nats,
		manager:   manager,
		listening: listening,
	}
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Healthy: true,
		Errors:  []string{},
	}

	update := h.state.Snapshot()
	status.Phase = update.Phase.Kind
	if h.emissions != nil {
		if last, ok := h.emissions.Last(); ok {
			at := last.At
			status.LastUpdate = &at
		}
	}
	if update.Phase.Kind == countdown.KindLoadError {
		status.Healthy = false
		status.Errors = append(status.Errors, "deadline could not be loaded")
	}

	if h.nats != nil {
		status.NATSEnabled = true
		status.NATSConnected = h.nats.Connected()
		if !status.NATSConnected {
			status.Healthy = false
			status.Errors = append(status.Errors, "NATS disconnected")
		}
	}

	status.ListenerActive = h.listening != nil && h.listening.Load()
	if !status.ListenerActive {
		status.Healthy = false
		status.Errors = append(status.Errors, "listener not active")
	}

	if h.manager != nil {
		status.Connections = h.manager.ConnectionCount()
	}
	return status
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Error().Err(err).Msg("failed to encode health response")
	}
}
