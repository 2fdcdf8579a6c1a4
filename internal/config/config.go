package config

import (
	"errors"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/dirtwin/dirtwin/internal/similarity"
)

// Default configuration values.
// These mirror the behavior of the original duplicate-structure finder
// where a counterpart exists and are otherwise chosen for safe, fast scans
// on typical project trees.
const (
	// DefaultThreshold is the minimum similarity score for two
	// directories to be considered duplicate candidates. 0.8 keeps the
	// findings focused on near-identical structures; lower values surface
	// more speculative matches at the cost of noise.
	DefaultThreshold = 0.8

	// DefaultWorkers is the number of concurrent scoring goroutines.
	// The pairwise pass is CPU-bound and embarrassingly parallel; four
	// workers saturate small machines without starving the rest of the
	// system. Can be raised via the --workers flag on big trees.
	DefaultWorkers = 4

	// DefaultMinFileCount keeps every non-empty directory in the
	// comparison. Raising it via --min-files excludes sparse directories
	// whose similarity scores are dominated by the zero/zero edge cases.
	DefaultMinFileCount = 0

	// DefaultMaxDepth of 0 means unlimited traversal depth. Deep trees
	// can be bounded via the --max-depth flag.
	DefaultMaxDepth = 0

	// AppName is the application name used for XDG directory paths.
	AppName = "dirtwin"
)

// Config holds all configuration options for dirtwin.
// This struct is designed to be populated from CLI flags and the optional
// config file, then passed through the application via dependency
// injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., WalkConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant
// benefit.
type Config struct {
	// Threshold is the similarity threshold in (0,1]. Pairs scoring
	// below it are discarded; pairs at or above it form groups.
	Threshold float64

	// Weights are the sub-metric weights for the similarity score.
	// They must be non-negative and sum to 1.0.
	Weights similarity.Weights

	// IncludeEmpty keeps completely empty directories in the comparison.
	// Off by default: empty pairs always score a perfect 1.0.
	IncludeEmpty bool

	// IncludeSizes enables collection of immediate-file sizes during the
	// walk. Sizes appear in reports; they only influence scoring when
	// weight is shifted into the reserved size slot.
	IncludeSizes bool

	// MinFileCount excludes directories with fewer immediate files from
	// the comparison. Zero keeps everything.
	MinFileCount int

	// MaxDepth limits traversal depth relative to each root.
	// Zero means unlimited.
	MaxDepth int

	// ExcludePatterns are glob patterns for directories to skip entirely,
	// matched against the base name and the root-relative path.
	ExcludePatterns []string

	// Workers is the number of concurrent scoring goroutines.
	Workers int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .dirtwin in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Profiles holds per-root configurations loaded from the config file.
	Profiles *File

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// Roots are the directories to scan. At least one is required.
	Roots []string

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save scan results to the database
	// for historical comparison.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases; users override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero (threshold, weights,
// worker count). This also serves as documentation of what the defaults
// are.
func NewConfig() *Config {
	return &Config{
		Threshold:    DefaultThreshold,
		Weights:      similarity.DefaultWeights(),
		IncludeSizes: true,
		MinFileCount: DefaultMinFileCount,
		MaxDepth:     DefaultMaxDepth,
		Workers:      DefaultWorkers,
	}
}

// XDGDataDir returns the XDG data directory for dirtwin.
// On Linux: ~/.local/share/dirtwin
// On macOS: ~/Library/Application Support/dirtwin
// On Windows: %LOCALAPPDATA%\dirtwin
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for dirtwin.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any scanning begins.
// The first error found is returned rather than collecting all errors,
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return ErrNoRoot
	}

	if c.Threshold <= 0 || c.Threshold > 1 {
		return similarity.ErrInvalidThreshold
	}

	if err := c.Weights.Validate(); err != nil {
		return err
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.MinFileCount < 0 {
		return ErrInvalidMinFileCount
	}

	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	for _, pattern := range c.ExcludePatterns {
		// filepath.Match validates the pattern syntax without a path.
		if _, err := filepath.Match(pattern, ""); err != nil {
			return errors.Join(ErrInvalidExcludePattern, err)
		}
	}

	return nil
}
