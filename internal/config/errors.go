package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// These are package-level sentinels so callers can match them with
// errors.Is while still getting a human-readable message.
var (
	// ErrNoUsername is returned when no Pinboard username is given.
	ErrNoUsername = errors.New("no username specified: provide a Pinboard username")

	// ErrInvalidItems is returned when the item count is not positive.
	ErrInvalidItems = errors.New("invalid item count: must be positive")

	// ErrTooManyItems is returned when more items are requested than
	// the Pinboard feed can return in one call.
	ErrTooManyItems = errors.New("invalid item count: the Pinboard feed returns at most 400 entries")

	// ErrNoOutputFile is returned when the output path is empty.
	ErrNoOutputFile = errors.New("no output file specified")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A zero timeout would disable the bound on network calls entirely.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the body size cap is
	// negative. Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
