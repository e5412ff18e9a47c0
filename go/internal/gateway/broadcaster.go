package gateway

import (
	"sync"

	"github.com/mcdev12/hackclock/go/internal/countdown"
	"github.com/rs/zerolog/log"
)

// Broadcaster is a countdown.Sink that forwards every update to websocket clients.
// Each queued event carries a sequence number so a joining client can skip
// events older than its StateSync.
type Broadcaster struct {
	manager *ConnectionManager

	mu         sync.Mutex
	seq        uint64
	seen       bool
	lastKind   countdown.Kind
	lastSoon   bool
	lastUpdate countdown.Update
}

// NewBroadcaster starts from initial, the engine state at construction, until
// the first update arrives.
func NewBroadcaster(manager *ConnectionManager, initial countdown.Update) *Broadcaster {
	return &Broadcaster{manager: manager, lastUpdate: initial}
}

// Render classifies the update as PhaseChanged or Tick and queues it.
func (b *Broadcaster) Render(update countdown.Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	eventType := EventTypeTick
	if !b.seen || update.Phase.Kind != b.lastKind || update.Phase.EndingSoon != b.lastSoon {
		eventType = EventTypePhaseChanged
	}
	b.seen = true
	b.lastKind = update.Phase.Kind
	b.lastSoon = update.Phase.EndingSoon
	b.lastUpdate = update
	b.seq++

	event, err := newCountdownEvent(eventType, update, b.seq)
	if err != nil {
		log.Error().Err(err).Msg("failed to build countdown event")
		return
	}
	// Queued under the lock so the broadcast channel stays in sequence order.
	b.manager.Broadcast(event)
}

// StateSync builds the snapshot for a joining client from the last update queued.
func (b *Broadcaster) StateSync() (*CountdownEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return newCountdownEvent(EventTypeStateSync, b.lastUpdate, b.seq)
}

// Last returns the most recent update rendered and whether there was one.
func (b *Broadcaster) Last() (countdown.Update, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUpdate, b.seen
}
