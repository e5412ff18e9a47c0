package countdown

import (
	"sync"
	"time"
)

// Update is what every sink receives on a tick or a deadline change.
type Update struct {
	Phase             Phase
	FormattedDeadline string
	Generation        uint64
	At                time.Time
}

// Sink is a rendering collaborator. Render is called with the engine lock
// held, so implementations must return quickly and must not call back into the Engine.
type Sink interface {
	Render(update Update)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(update Update)

func (f SinkFunc) Render(update Update) {
	f(update)
}

// CountdownText is the text the countdown surface shows for a phase.
func CountdownText(p Phase) string {
	switch p.Kind {
	case KindNoDeadline:
		return "No deadline set"
	case KindInvalid:
		return "Invalid deadline"
	case KindLoadError:
		return "Error loading deadline"
	case KindOpen:
		return p.Remaining.String()
	case KindEnded:
		return "Ended"
	default:
		return "Loading deadline..."
	}
}

// SubmitDisabled reports whether submit controls must be disabled.
func SubmitDisabled(p Phase) bool {
	return p.Kind != KindOpen
}

// BannerVisible reports whether the "submissions closed" banner is shown.
func BannerVisible(p Phase) bool {
	return p.Kind == KindEnded
}

// MenuVisible reports whether the submission menu item is shown.
func MenuVisible(p Phase) bool {
	return p.Kind != KindEnded
}

// Toggle returns an edge-triggered sink: apply runs on the first update and
// afterwards only when pred changes value.
func Toggle(pred func(Phase) bool, apply func(value bool, update Update)) Sink {
	return &toggleSink{pred: pred, apply: apply}
}

type toggleSink struct {
	mu    sync.Mutex
	pred  func(Phase) bool
	apply func(bool, Update)
	seen  bool
	last  bool
}

func (t *toggleSink) Render(update Update) {
	value := t.pred(update.Phase)

	t.mu.Lock()
	changed := !t.seen || value != t.last
	t.seen = true
	t.last = value
	t.mu.Unlock()

	if changed {
		t.apply(value, update)
	}
}

// TextSink calls apply with the countdown text of every update.
func TextSink(apply func(text string, update Update)) Sink {
	return SinkFunc(func(update Update) {
		apply(CountdownText(update.Phase), update)
	})
}
