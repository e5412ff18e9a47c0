package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/hackclock/go/internal/alert"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTickInterval     = time.Second
	DefaultEndingSoonWindow = 24 * time.Hour
)

// Source fetches the raw deadline string from the server.
// An empty string means no deadline is configured.
type Source interface {
	FetchDeadline(ctx context.Context) (string, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context) (string, error)

func (f SourceFunc) FetchDeadline(ctx context.Context) (string, error) {
	return f(ctx)
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the real clock, typically with a clockwork.FakeClock in tests.
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.tickInterval = d
		}
	}
}

// WithEndingSoonWindow sets how close to the deadline an open phase is flagged EndingSoon.
// Zero disables the flag.
func WithEndingSoonWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.endingSoonWindow = d
		}
	}
}

// WithLocation sets the zone used to read zoneless deadlines and to format them.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

func WithDisplayLayout(layout string) Option {
	return func(e *Engine) {
		if layout != "" {
			e.displayLayout = layout
		}
	}
}

func WithAlerter(a alert.Alerter) Option {
	return func(e *Engine) {
		if a != nil {
			e.alerter = a
		}
	}
}

func WithMetrics(m MetricsCollector) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// Engine owns the current deadline, derives the phase from the clock and
// pushes every change to its sinks.
type Engine struct {
	source  Source
	clock   clockwork.Clock
	alerter alert.Alerter
	metrics MetricsCollector

	tickInterval     time.Duration
	endingSoonWindow time.Duration
	location         *time.Location
	displayLayout    string

	mu         sync.Mutex
	sinks      []Sink
	deadline   Deadline
	phase      Phase
	generation uint64
	active     *tickerHandle
	ended      bool // ended already emitted for the current deadline
	closed     bool
}

// tickerHandle is the single periodic timer an Engine may own at a time.
type tickerHandle struct {
	ticker clockwork.Ticker
	done   chan struct{}
}

// NewEngine creates an engine in the pending phase.
func NewEngine(source Source, opts ...Option) *Engine {
	e := &Engine{
		source:           source,
		clock:            clockwork.NewRealClock(),
		alerter:          alert.Nop{},
		metrics:          NoOpMetricsCollector{},
		tickInterval:     DefaultTickInterval,
		endingSoonWindow: DefaultEndingSoonWindow,
		location:         time.Local,
		displayLayout:    DefaultDisplayLayout,
		phase:            Phase{Kind: KindPending},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe registers sinks. They receive every update emitted after this call.
func (e *Engine) Subscribe(sinks ...Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range sinks {
		if s != nil {
			e.sinks = append(e.sinks, s)
		}
	}
}

// Load fetches and installs the deadline without starting the tick.
// Unparsable and missing deadlines are not errors: they come back as the
// invalid and no_deadline phases. A fetch failure is alerted and keeps the
// previous phase.
func (e *Engine) Load(ctx context.Context) (Phase, error) {
	return e.load(ctx, false)
}

// Refresh is Load followed by Start, done atomically with respect to Reload.
func (e *Engine) Refresh(ctx context.Context) (Phase, error) {
	return e.load(ctx, true)
}

func (e *Engine) load(ctx context.Context, start bool) (Phase, error) {
	e.mu.Lock()
	if e.closed {
		phase := e.phase
		e.mu.Unlock()
		return phase, ErrSuperseded
	}
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	started := e.clock.Now()
	raw, err := e.source.FetchDeadline(ctx)
	took := e.clock.Since(started)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		e.metrics.RecordSuperseded()
		log.Debug().
			Uint64("generation", gen).
			Uint64("current_generation", e.generation).
			Msg("discarding superseded deadline load")
		return e.phase, ErrSuperseded
	}

	e.metrics.RecordLoad(err == nil, took)
	if err != nil {
		log.Error().Err(err).Uint64("generation", gen).Msg("error fetching deadline")
		e.alerter.Alert(alert.LevelDanger, "Error loading deadline")
		if e.phase.Kind == KindPending {
			e.phase = Phase{Kind: KindLoadError}
			e.emitLocked()
		}
		return e.phase, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}

	e.installLocked(ParseDeadline(raw, e.location))
	if start {
		e.startLocked()
	}
	return e.phase, nil
}

// Start begins the periodic tick. The first tick is computed immediately.
// It is a no-op for a missing, invalid or already ended deadline.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startLocked()
}

// Reload replaces the deadline, cancelling any running tick and any
// in-flight Load, and restarts the countdown.
func (e *Engine) Reload(raw string) Phase {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return e.phase
	}
	e.generation++
	log.Info().
		Str("deadline", raw).
		Uint64("generation", e.generation).
		Msg("reloading deadline")

	e.installLocked(ParseDeadline(raw, e.location))
	e.startLocked()
	return e.phase
}

// Close releases the ticker and invalidates in-flight loads. No sink is
// called after Close returns.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.generation++
	e.releaseTickerLocked()
	log.Debug().Msg("countdown engine closed")
}

// DerivedDeadline returns the current deadline moved offsetDays days earlier.
func (e *Engine) DerivedDeadline(offsetDays int) Deadline {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deadline.Derive(offsetDays)
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *Engine) Deadline() Deadline {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deadline
}

// Snapshot returns the current state as an Update, for sinks that join late.
func (e *Engine) Snapshot() Update {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updateLocked()
}

// FormatDeadline formats d with the engine's display layout and location.
func (e *Engine) FormatDeadline(d Deadline) string {
	return d.Format(e.displayLayout, e.location)
}

// installLocked swaps in a new deadline. Fixed phases are emitted right away;
// a valid deadline is emitted by the first tick.
func (e *Engine) installLocked(d Deadline) {
	e.releaseTickerLocked()
	e.deadline = d
	e.ended = false

	if !d.Valid() {
		e.phase = phaseFor(d)
		log.Info().
			Str("deadline", d.Raw).
			Str("phase", string(e.phase.Kind)).
			Msg("installed deadline")
		e.emitLocked()
		return
	}

	e.phase = phaseAt(d.At, e.clock.Now(), e.endingSoonWindow)
	log.Info().
		Time("deadline", d.At).
		Str("phase", string(e.phase.Kind)).
		Msg("installed deadline")
}

func (e *Engine) startLocked() {
	if e.closed {
		return
	}
	e.releaseTickerLocked()
	if !e.deadline.Valid() || e.ended {
		return
	}
	if e.tickLocked() {
		return
	}

	h := &tickerHandle{
		ticker: e.clock.NewTicker(e.tickInterval),
		done:   make(chan struct{}),
	}
	e.active = h
	go e.run(h)

	log.Debug().
		Time("deadline", e.deadline.At).
		Dur("interval", e.tickInterval).
		Msg("started countdown ticker")
}

func (e *Engine) run(h *tickerHandle) {
	for {
		select {
		case <-h.done:
			return
		case <-h.ticker.Chan():
			e.mu.Lock()
			if e.active != h {
				e.mu.Unlock()
				return
			}
			ended := e.tickLocked()
			e.mu.Unlock()
			if ended {
				return
			}
		}
	}
}

// tickLocked recomputes the phase and notifies sinks. It returns true once
// the deadline has passed, after releasing the ticker.
func (e *Engine) tickLocked() bool {
	e.phase = phaseAt(e.deadline.At, e.clock.Now(), e.endingSoonWindow)
	e.metrics.RecordTick(e.phase.Kind)

	if e.phase.Kind != KindEnded {
		e.emitLocked()
		return false
	}

	e.releaseTickerLocked()
	if !e.ended {
		e.ended = true
		log.Info().Time("deadline", e.deadline.At).Msg("deadline passed")
		e.emitLocked()
	}
	return true
}

func (e *Engine) releaseTickerLocked() {
	if e.active == nil {
		return
	}
	stopAndDrainTicker(e.active.ticker)
	close(e.active.done)
	e.active = nil
}

// stopAndDrainTicker stops a ticker and drops a tick that may already be buffered.
func stopAndDrainTicker(ticker clockwork.Ticker) {
	ticker.Stop()
	select {
	case <-ticker.Chan():
	default:
	}
}

func (e *Engine) emitLocked() {
	update := e.updateLocked()
	for _, s := range e.sinks {
		s.Render(update)
	}
}

func (e *Engine) updateLocked() Update {
	return Update{
		Phase:             e.phase,
		FormattedDeadline: e.deadline.Format(e.displayLayout, e.location),
		Generation:        e.generation,
		At:                e.clock.Now(),
	}
}
