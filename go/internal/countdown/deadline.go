package countdown

import (
	"strings"
	"time"
)

// DeadlineState says whether a Deadline carries a usable instant.
type DeadlineState int

const (
	DeadlineUnset DeadlineState = iota
	DeadlineInvalid
	DeadlineValid
)

func (s DeadlineState) String() string {
	switch s {
	case DeadlineInvalid:
		return "invalid"
	case DeadlineValid:
		return "valid"
	default:
		return "unset"
	}
}

// StorageLayout is the format the submission server keeps its deadline in.
const StorageLayout = "2006-01-02 15:04:05"

// DefaultDisplayLayout matches the long en-US date the submission page shows.
const DefaultDisplayLayout = "January 2, 2006, 03:04 PM"

// zonedLayouts carry their own offset; localLayouts are read in the caller's location.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		time.RFC1123Z,
		time.RFC1123,
	}
	localLayouts = []string{
		StorageLayout,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		DefaultDisplayLayout,
		"January 2, 2006 at 03:04 PM",
		"January 2, 2006 03:04 PM",
		"January 2, 2006 3:04 PM",
		"January 2 2006 03:04 PM",
		"January 2 2006 15:04:05",
		"January 2 2006 15:04",
		"January 2, 2006 15:04:05",
		"January 2, 2006",
		"January 2 2006",
		"Jan 2, 2006 15:04:05",
		"Jan 2 2006 15:04:05",
		"01/02/2006 15:04:05",
		"01/02/2006 15:04",
		"01/02/2006",
	}
)

// Deadline is a single server-supplied cutoff. The zero value is unset.
type Deadline struct {
	Raw   string
	At    time.Time
	State DeadlineState
}

// ParseDeadline never fails: unparsable input yields an invalid Deadline.
// Zoneless forms are interpreted in loc (time.Local when nil).
func ParseDeadline(raw string, loc *time.Location) Deadline {
	if loc == nil {
		loc = time.Local
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return Deadline{Raw: raw, State: DeadlineUnset}
	}

	candidates := []string{trimmed}
	if stripped := strings.Replace(trimmed, ",", "", 1); stripped != trimmed {
		candidates = append(candidates, stripped)
	}

	for _, candidate := range candidates {
		for _, layout := range zonedLayouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return Deadline{Raw: raw, At: t, State: DeadlineValid}
			}
		}
		for _, layout := range localLayouts {
			if t, err := time.ParseInLocation(layout, candidate, loc); err == nil {
				return Deadline{Raw: raw, At: t, State: DeadlineValid}
			}
		}
	}

	return Deadline{Raw: raw, State: DeadlineInvalid}
}

// Valid reports whether the deadline holds a usable instant.
func (d Deadline) Valid() bool {
	return d.State == DeadlineValid
}

// Err classifies a non-valid deadline; it is nil for a valid one.
func (d Deadline) Err() error {
	switch d.State {
	case DeadlineUnset:
		return ErrNoDeadline
	case DeadlineInvalid:
		return ErrParseFailure
	default:
		return nil
	}
}

// Derive returns the deadline moved offsetDays calendar days earlier,
// e.g. a registration cutoff N days before submissions close.
// Unset and invalid deadlines are returned unchanged.
func (d Deadline) Derive(offsetDays int) Deadline {
	if !d.Valid() {
		return d
	}
	at := d.At.AddDate(0, 0, -offsetDays)
	return Deadline{Raw: at.Format(time.RFC3339), At: at, State: DeadlineValid}
}

// Format renders the deadline for display. Invalid deadlines echo their raw text.
func (d Deadline) Format(layout string, loc *time.Location) string {
	switch d.State {
	case DeadlineValid:
		if layout == "" {
			layout = DefaultDisplayLayout
		}
		if loc == nil {
			loc = time.Local
		}
		return d.At.In(loc).Format(layout)
	case DeadlineInvalid:
		return d.Raw
	default:
		return ""
	}
}

// Storage renders the deadline in the server's storage format.
func (d Deadline) Storage(loc *time.Location) string {
	if !d.Valid() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return d.At.In(loc).Format(StorageLayout)
}
