package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Threshold and weight violations reuse the
// sentinel errors of the similarity package so a single errors.Is check
// works no matter which layer rejected the value.
var (
	// ErrNoRoot is returned when no root directory is specified.
	ErrNoRoot = errors.New("no root specified: provide one or more directories to scan")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	// Zero workers would mean no scoring at all.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidMinFileCount is returned when the minimum file count is
	// negative. Use 0 to keep all non-empty directories.
	ErrInvalidMinFileCount = errors.New("invalid minimum file count: must be non-negative")

	// ErrInvalidMaxDepth is returned when the maximum depth is negative.
	// Use 0 for unlimited depth.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a
	// time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidExcludePattern is returned when an exclusion pattern has
	// invalid glob syntax.
	ErrInvalidExcludePattern = errors.New("invalid exclude pattern")
)
