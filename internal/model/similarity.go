package model

// Breakdown holds the per-metric sub-scores of a pairwise comparison.
// Each value is in [0,1]. The breakdown exists for diagnostics and report
// output; the weighted combination lives in the similarity package.
type Breakdown struct {
	// FileCount is min/max ratio of the two file counts.
	FileCount float64 `json:"file_count"`

	// SubdirCount is min/max ratio of the two subdirectory counts.
	SubdirCount float64 `json:"subdir_count"`

	// Extension is the Jaccard overlap of the extension key sets.
	Extension float64 `json:"extension"`

	// SubdirName is the Jaccard overlap of the subdirectory name sets.
	SubdirName float64 `json:"subdir_name"`

	// Depth is the depth proximity score.
	Depth float64 `json:"depth"`

	// Size is the min/max ratio of the total sizes. It only contributes
	// to the final score when the size weight is non-zero, which is the
	// reserved future extension slot and defaults to off.
	Size float64 `json:"size,omitempty"`
}

// SimilarityResult is the outcome of comparing two structure descriptors.
// Results are created transiently during the all-pairs comparison pass and
// are not persisted on their own; retained results travel inside the
// groups they triggered.
type SimilarityResult struct {
	// PathA and PathB identify the compared directories. The grouper
	// always emits PathA < PathB in input order (i < j), which together
	// with the deterministic tie-break keeps output stable across runs.
	PathA string `json:"path_a"`
	PathB string `json:"path_b"`

	// Score is the weighted similarity in [0,1].
	Score float64 `json:"score"`

	// ExactMatch is true when the structure hashes were identical and the
	// score was short-circuited to 1.0 without computing sub-metrics. In
	// that case Breakdown is zero-valued.
	ExactMatch bool `json:"exact_match,omitempty"`

	// Breakdown holds the five (plus reserved size) sub-scores.
	Breakdown Breakdown `json:"breakdown"`
}

// DuplicateGroup is a transitively-merged cluster of directories whose
// pairwise similarity with at least one other member met the threshold.
//
// Transitivity is a deliberate grouping policy, not a property of the
// metric: A and C land in the same group through B even when score(A,C)
// alone is below threshold. Pairs records exactly which links formed the
// group so reports can surface that distinction.
type DuplicateGroup struct {
	// Members are the directory paths in the group, sorted lexically.
	Members []string `json:"members"`

	// Pairs are the above-threshold results between members, sorted by
	// descending score (ties by path order).
	Pairs []SimilarityResult `json:"pairs"`

	// TopScore is the highest pairwise score in the group.
	TopScore float64 `json:"top_score"`

	// TotalSize is the summed immediate-file size across all members.
	// Only meaningful when HasSize is true (all members carried sizes).
	TotalSize int64 `json:"total_size_bytes,omitempty"`

	// HasSize indicates whether every member carried size information.
	HasSize bool `json:"has_size,omitempty"`
}

// Size returns the number of member directories.
func (g *DuplicateGroup) Size() int {
	return len(g.Members)
}
