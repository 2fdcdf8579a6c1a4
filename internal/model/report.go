package model

import "time"

// ScanReport is the main scan result structure. It accumulates state as
// the pipeline steps run: the walker fills Entries, the fingerprint step
// fills Descriptors, the scoring step fills Pairs and Groups, and the
// assemble step fills Findings.
//
// Design decision: We use a single struct threaded through the pipeline
// rather than returning values step-to-step because it simplifies
// serialization, database storage, and continue-on-error semantics (a
// failed step leaves earlier results intact).
type ScanReport struct {
	// Roots are the scanned root directories as given on the command line.
	Roots []string `json:"roots"`

	// DateScanned is when the scan started.
	DateScanned time.Time `json:"date_scanned"`

	// Entries are the raw directory listings from the walker.
	// Transient; not serialized.
	Entries []DirectoryEntry `json:"-"`

	// Descriptors are the fingerprints that survived validation and the
	// policy filters. Transient; not serialized.
	Descriptors []*StructureDescriptor `json:"-"`

	// DirectoriesScanned is the number of directories the walker visited.
	DirectoriesScanned int `json:"directories_scanned"`

	// SkippedEntries counts entries rejected as malformed.
	SkippedEntries int `json:"skipped_entries,omitempty"`

	// FilteredOut counts descriptors removed by the policy filters
	// (empty directories, minimum file count).
	FilteredOut int `json:"filtered_out,omitempty"`

	// Pairs are the above-threshold similarity results, sorted by
	// descending score.
	Pairs []SimilarityResult `json:"pairs,omitempty"`

	// Groups are the merged duplicate-structure groups.
	Groups []DuplicateGroup `json:"groups,omitempty"`

	// Findings is the ordered, presentation-ready view built by the
	// assemble step.
	Findings *Findings `json:"findings,omitempty"`

	// Threshold is the similarity threshold the run used.
	Threshold float64 `json:"threshold"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// TimedOut indicates the scan was cancelled before completing.
	TimedOut bool `json:"timed_out,omitempty"`

	// Error holds a step failure when continue-on-error is enabled.
	Error error `json:"-"`

	// ErrorMessage mirrors Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewScanReport creates a ScanReport for the given roots with the scan
// timestamp set to now.
func NewScanReport(roots []string) *ScanReport {
	return &ScanReport{
		Roots:       roots,
		DateScanned: time.Now(),
	}
}

// Findings is the ordered result consumed by the report writers: groups
// sorted by member count descending, then top pairwise score descending.
// It plays the same role a summarized report plays for a scanner: a
// curated view separate from the accumulated scan state.
type Findings struct {
	// Roots are the scanned root directories.
	Roots []string `json:"roots"`

	// DateScanned is when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// DirectoriesScanned is the number of directories visited.
	DirectoriesScanned int `json:"directories_scanned"`

	// DirectoriesCompared is the number of descriptors that entered the
	// pairwise comparison after filtering.
	DirectoriesCompared int `json:"directories_compared"`

	// GroupCount is the number of duplicate-structure groups found.
	GroupCount int `json:"group_count"`

	// DuplicateDirCount is the total number of directories that belong
	// to some group.
	DuplicateDirCount int `json:"duplicate_dir_count"`

	// LargestGroup is the member count of the biggest group (0 if none).
	LargestGroup int `json:"largest_group,omitempty"`

	// TopScore is the highest pairwise score across all groups.
	TopScore float64 `json:"top_score,omitempty"`

	// Groups are the ranked group findings.
	Groups []GroupFinding `json:"groups,omitempty"`

	// SkippedEntries counts malformed entries that were skipped.
	SkippedEntries int `json:"skipped_entries,omitempty"`

	// TimedOut indicates the scan was cancelled before completing.
	TimedOut bool `json:"timed_out,omitempty"`

	// Error contains any error message if a step failed.
	Error string `json:"error,omitempty"`
}

// GroupFinding is a single ranked group in the findings.
type GroupFinding struct {
	// Rank is the 1-based position in the presentation order.
	Rank int `json:"rank"`

	// Members are the directory paths, sorted lexically.
	Members []string `json:"members"`

	// MemberCount is len(Members), kept explicit for serialized output.
	MemberCount int `json:"member_count"`

	// TopScore is the highest pairwise score in the group.
	TopScore float64 `json:"top_score"`

	// MeanScore is the average of the triggering pairwise scores.
	MeanScore float64 `json:"mean_score"`

	// TotalSize is the summed immediate-file size across members.
	TotalSize int64 `json:"total_size_bytes,omitempty"`

	// HasSize indicates whether TotalSize is meaningful.
	HasSize bool `json:"has_size,omitempty"`

	// Pairs are the triggering results, sorted by descending score.
	Pairs []SimilarityResult `json:"pairs,omitempty"`
}

// HasGroups reports whether any duplicate-structure groups were found.
func (f *Findings) HasGroups() bool {
	return f.GroupCount > 0
}
