package gateway

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/hackclock/go/internal/countdown"
)

// CountdownEvent is the envelope pushed to every websocket client.
type CountdownEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Seq       uint64          `json:"seq"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

type EventType string

const (
	EventTypePhaseChanged EventType = "PhaseChanged"
	EventTypeTick         EventType = "Tick"
	EventTypeStateSync    EventType = "StateSync"
)

// PhasePayload is the data of every countdown event and of /api/countdown/state.
type PhasePayload struct {
	Phase             countdown.Kind `json:"phase"`
	Text              string         `json:"text"`
	EndingSoon        bool           `json:"ending_soon"`
	RemainingSec      int64          `json:"remaining_sec"`
	Days              int64          `json:"days"`
	Hours             int64          `json:"hours"`
	Minutes           int64          `json:"minutes"`
	Seconds           int64          `json:"seconds"`
	Deadline          *time.Time     `json:"deadline,omitempty"`
	FormattedDeadline string         `json:"formatted_deadline,omitempty"`
	SubmitDisabled    bool           `json:"submit_disabled"`
	BannerVisible     bool           `json:"banner_visible"`
	MenuVisible       bool           `json:"menu_visible"`
	Generation        uint64         `json:"generation"`
}

func NewPhasePayload(update countdown.Update) PhasePayload {
	p := update.Phase
	payload := PhasePayload{
		Phase:          p.Kind,
		Text:           countdown.CountdownText(p),
		EndingSoon:     p.EndingSoon,
		SubmitDisabled: countdown.SubmitDisabled(p),
		BannerVisible:  countdown.BannerVisible(p),
		MenuVisible:    countdown.MenuVisible(p),
		Generation:     update.Generation,
	}
	if p.Kind == countdown.KindOpen {
		payload.RemainingSec = int64(p.Remaining.Total / time.Second)
		payload.Days = p.Remaining.Days
		payload.Hours = p.Remaining.Hours
		payload.Minutes = p.Remaining.Minutes
		payload.Seconds = p.Remaining.Seconds
	}
	if !p.Deadline.IsZero() {
		at := p.Deadline
		payload.Deadline = &at
		payload.FormattedDeadline = update.FormattedDeadline
	}
	return payload
}

func newCountdownEvent(eventType EventType, update countdown.Update, seq uint64) (*CountdownEvent, error) {
	data, err := json.Marshal(NewPhasePayload(update))
	if err != nil {
		return nil, err
	}
	at := update.At
	if at.IsZero() {
		at = time.Now()
	}
	return &CountdownEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Seq:       seq,
		Timestamp: at,
		Data:      data,
	}, nil
}
