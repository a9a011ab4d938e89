package pipeline

import "errors"

// Error taxonomy shared by the analysis packages. Every failure a caller
// can act on wraps one of these sentinels.
var (
	// ErrInvalidInput covers malformed rows, missing required fields and
	// non-positive parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyCohort is returned when a requested cohort has no
	// observations at all. An all-censored cohort is NOT empty.
	ErrEmptyCohort = errors.New("empty cohort")

	// ErrResourceLimit is returned when a requested workload (row count,
	// simulation repetitions) exceeds the configured ceiling.
	ErrResourceLimit = errors.New("resource limit exceeded")
)
