package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/mcdev12/hackclock/go/internal/countdown"
	"github.com/rs/zerolog/log"
)

// StateProvider exposes the engine's current state. *countdown.Engine implements it.
type StateProvider interface {
	Snapshot() countdown.Update
}

// StateResponse is the body of GET /api/countdown/state.
type StateResponse struct {
	PhasePayload
	DeadlineRaw string `json:"deadline_raw,omitempty"`
}

type StateHandler struct {
	state StateProvider
}

func NewStateHandler(state StateProvider) *StateHandler {
	return &StateHandler{state: state}
}

// HandleGetState handles GET /api/countdown/state
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	update := h.state.Snapshot()
	response := StateResponse{PhasePayload: NewPhasePayload(update)}
	if raw, ok := h.state.(interface{ Deadline() countdown.Deadline }); ok {
		response.DeadlineRaw = raw.Deadline().Raw
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("failed to encode countdown state response")
	}
}

func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/countdown/state", h.HandleGetState)
}
