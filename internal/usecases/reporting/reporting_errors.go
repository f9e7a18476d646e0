package reporting

import "errors"

var (
	// ErrNegativeGracePeriod: the core accepts any non-negative grace period;
	// bounds beyond that are the caller's concern.
	ErrNegativeGracePeriod = errors.New("grace period must not be negative")

	// ErrNoResult: no analysis has completed yet.
	ErrNoResult = errors.New("no analysis result available")
)
