package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/mcdev12/hackclock/go/internal/countdown"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const ServiceName = "hackclock-gateway"

// Version is reported by /info.
var Version = "dev"

// Service is the countdown gateway: websocket fan-out of engine updates plus
// the state, health and info endpoints.
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	stateHandler      *StateHandler
	health            *HealthChecker
	broadcaster       *Broadcaster
	state             StateProvider
	metrics           StatsProvider
	listening         atomic.Bool
}

// StatsProvider is implemented by countdown.CounterMetrics.
type StatsProvider interface {
	Stats() map[string]interface{}
}

// NewService creates the gateway. nats may be nil when the watcher is disabled.
func NewService(config ConnectionConfig, state StateProvider, nats NATSStatus) *Service {
	connectionManager := NewConnectionManager(config)
	broadcaster := NewBroadcaster(connectionManager, state.Snapshot())

	s := &Service{
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager, broadcaster.StateSync),
		stateHandler:      NewStateHandler(state),
		broadcaster:       broadcaster,
		state:             state,
	}
	s.health = NewHealthChecker(state, broadcaster, nats, connectionManager, &s.listening)
	return s
}

// SetMetrics exposes engine counters on /info.
func (s *Service) SetMetrics(metrics StatsProvider) {
	s.metrics = metrics
}

// Sink is the countdown.Sink to subscribe on the engine.
func (s *Service) Sink() countdown.Sink {
	return s.broadcaster
}

// Start runs the broadcast loop until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	s.connectionManager.Start(ctx)
}

func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	s.stateHandler.RegisterStateRoutes(mux)
	mux.Handle("/health", s.health)
	mux.HandleFunc("/info", s.handleInfo)
	log.Info().Msg("countdown gateway routes registered")
}

// Handler returns the routes wrapped in CORS and h2c.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	return h2c.NewHandler(c.Handler(mux), &http2.Server{})
}

// ListenAndServe serves the gateway on addr until ctx is cancelled.
func (s *Service) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("gateway shutdown failed")
		}
	}()

	s.listening.Store(true)
	defer s.listening.Store(false)

	log.Info().Str("addr", listener.Addr().String()).Msg("countdown gateway listening")
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve gateway: %w", err)
	}
	return nil
}

type Info struct {
	Service     string         `json:"service"`
	Version     string         `json:"version"`
	Connections int            `json:"connections"`
	Phase       countdown.Kind `json:"phase"`
	Metrics     map[string]any `json:"metrics,omitempty"`
}

func (s *Service) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := Info{
		Service:     ServiceName,
		Version:     Version,
		Connections: s.connectionManager.ConnectionCount(),
		Phase:       s.state.Snapshot().Phase.Kind,
	}
	if s.metrics != nil {
		info.Metrics = s.metrics.Stats()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		log.Error().Err(err).Msg("failed to encode info response")
	}
}
