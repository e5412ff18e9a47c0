package countdown

import "errors"

var (
	// ErrFetchFailure wraps any failure reaching the deadline endpoint.
	ErrFetchFailure = errors.New("failed to fetch deadline")

	// ErrParseFailure reports a deadline string that is not a recognised date.
	ErrParseFailure = errors.New("invalid deadline")

	// ErrNoDeadline reports that the server has no deadline configured.
	// It is informational, not a failure.
	ErrNoDeadline = errors.New("no deadline set")

	// ErrSuperseded is returned by Load when a newer Load or Reload
	// replaced the deadline while the fetch was in flight.
	ErrSuperseded = errors.New("deadline load superseded")
)
