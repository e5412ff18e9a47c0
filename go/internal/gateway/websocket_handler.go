package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles websocket upgrade requests for countdown clients
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	stateSync         func() (*CountdownEvent, error)
}

// NewWebSocketHandler serves clients that start from the StateSync built by stateSync.
func NewWebSocketHandler(cm *ConnectionManager, stateSync func() (*CountdownEvent, error)) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		stateSync:         stateSync,
	}
}

// HandleCountdownConnection upgrades the request and sends a StateSync
// snapshot before any live event.
func (h *WebSocketHandler) HandleCountdownConnection(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = "anonymous"
	}

	// Upgrade writes its own error response on failure.
	if err := h.connectionManager.UpgradeConnection(w, r, clientID, h.stateSync); err != nil {
		log.Error().
			Err(err).
			Str("client_id", clientID).
			Msg("failed to upgrade websocket connection")
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.connectionManager.GetConnectionStats()); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/countdown", h.HandleCountdownConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
