package countdown

import (
	"fmt"
	"time"
)

// Kind is the lifecycle state of the countdown.
type Kind string

const (
	KindPending    Kind = "pending"
	KindNoDeadline Kind = "no_deadline"
	KindInvalid    Kind = "invalid"
	KindLoadError  Kind = "load_error"
	KindOpen       Kind = "open"
	KindEnded      Kind = "ended"
)

const (
	msPerDay    = int64(86400000)
	msPerHour   = int64(3600000)
	msPerMinute = int64(60000)
	msPerSecond = int64(1000)
)

// Remaining is a non-negative span split into whole days, hours, minutes and seconds.
type Remaining struct {
	Total   time.Duration
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

// Decompose floors d along the day/hour/minute/second remainder chain.
// Negative spans clamp to zero.
func Decompose(d time.Duration) Remaining {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return Remaining{
		Total:   d,
		Days:    ms / msPerDay,
		Hours:   (ms % msPerDay) / msPerHour,
		Minutes: (ms % msPerHour) / msPerMinute,
		Seconds: (ms % msPerMinute) / msPerSecond,
	}
}

func (r Remaining) String() string {
	return fmt.Sprintf("%dd %dh %dm %ds", r.Days, r.Hours, r.Minutes, r.Seconds)
}

// Phase is derived from the current Deadline and the clock; it is never stored by callers.
type Phase struct {
	Kind       Kind
	Remaining  Remaining
	Deadline   time.Time
	EndingSoon bool
}

// Open reports whether submissions are still accepted.
func (p Phase) Open() bool {
	return p.Kind == KindOpen
}

// Ended reports whether the deadline has passed.
func (p Phase) Ended() bool {
	return p.Kind == KindEnded
}

// phaseAt computes the phase of a valid deadline at now.
// remaining == 0 belongs to the ended side.
func phaseAt(deadline, now time.Time, endingSoon time.Duration) Phase {
	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return Phase{Kind: KindEnded, Deadline: deadline}
	}
	return Phase{
		Kind:       KindOpen,
		Remaining:  Decompose(remaining),
		Deadline:   deadline,
		EndingSoon: endingSoon > 0 && remaining <= endingSoon,
	}
}

// phaseFor maps a non-valid deadline to its fixed phase.
func phaseFor(d Deadline) Phase {
	switch d.State {
	case DeadlineUnset:
		return Phase{Kind: KindNoDeadline}
	case DeadlineInvalid:
		return Phase{Kind: KindInvalid}
	default:
		return Phase{Kind: KindPending}
	}
}
