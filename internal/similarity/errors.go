package similarity

import "errors"

// Validation errors for scorer and grouper construction.
// These fail fast before any comparison work begins; a rejected
// configuration is reported to the caller and never retried.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances at each validation site. This allows
// callers to use errors.Is() for programmatic error handling while still
// providing human-readable messages.
var (
	// ErrInvalidThreshold is returned when the similarity threshold is
	// outside (0, 1]. A threshold of 0 would group everything; above 1
	// nothing could ever match.
	ErrInvalidThreshold = errors.New("invalid similarity threshold: must be in (0, 1]")

	// ErrInvalidWeights is returned when the sub-metric weights are
	// negative or do not sum to 1.0 within tolerance. Weights outside
	// that contract would silently distort every score.
	ErrInvalidWeights = errors.New("invalid similarity weights: must be non-negative and sum to 1.0")

	// ErrInvalidWorkers is returned when the worker count for parallel
	// scoring is not positive.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")
)
