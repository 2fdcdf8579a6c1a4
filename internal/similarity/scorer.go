package similarity

import (
	"math"

	"github.com/dirtwin/dirtwin/internal/model"
)

// weightSumTolerance is the floating-point slack allowed when checking
// that the weights sum to 1.0.
const weightSumTolerance = 1e-6

// Weights holds the sub-metric weights of the similarity score.
// The five active weights plus the reserved Size slot must be
// non-negative and sum to 1.0.
type Weights struct {
	// FileCount weights the min/max file count ratio.
	FileCount float64 `json:"file_count" yaml:"fileCount"`

	// SubdirCount weights the min/max subdirectory count ratio.
	SubdirCount float64 `json:"subdir_count" yaml:"subdirCount"`

	// Extension weights the Jaccard overlap of extension key sets.
	Extension float64 `json:"extension" yaml:"extension"`

	// SubdirName weights the Jaccard overlap of subdirectory name sets.
	SubdirName float64 `json:"subdir_name" yaml:"subdirName"`

	// Depth weights the depth proximity score.
	Depth float64 `json:"depth" yaml:"depth"`

	// Size weights the min/max total-size ratio. Reserved extension slot:
	// it defaults to 0.0 so size never influences the score unless a user
	// explicitly shifts weight into it. When enabled, a pair where either
	// side lacks size information contributes 0 for this metric.
	Size float64 `json:"size" yaml:"size"`
}

// DefaultWeights returns the standard weighting: extensions matter most,
// counts and subdirectory names equally, depth least, size off.
func DefaultWeights() Weights {
	return Weights{
		FileCount:   0.20,
		SubdirCount: 0.20,
		Extension:   0.30,
		SubdirName:  0.20,
		Depth:       0.10,
		Size:        0.0,
	}
}

// Sum returns the total of all weight slots including the reserved size slot.
func (w Weights) Sum() float64 {
	return w.FileCount + w.SubdirCount + w.Extension + w.SubdirName + w.Depth + w.Size
}

// Validate checks the weight contract: every slot non-negative and the
// sum equal to 1.0 within tolerance.
func (w Weights) Validate() error {
	for _, v := range []float64{w.FileCount, w.SubdirCount, w.Extension, w.SubdirName, w.Depth, w.Size} {
		if v < 0 {
			return ErrInvalidWeights
		}
	}
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return ErrInvalidWeights
	}
	return nil
}

// Scorer computes the weighted pairwise similarity of two structure
// descriptors. It holds only validated weights; Score is a pure function
// with no side effects, so a single Scorer is safe for concurrent use.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer after validating the weights.
func NewScorer(weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

// Weights returns the scorer's weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score compares two descriptors and returns the weighted similarity with
// its per-metric breakdown. The result is symmetric in a and b, always in
// [0,1], and exactly 1.0 when the structure hashes match (fast path, no
// sub-metrics computed).
func (s *Scorer) Score(a, b *model.StructureDescriptor) model.SimilarityResult {
	result := model.SimilarityResult{
		PathA: a.Path,
		PathB: b.Path,
	}

	if a.StructureHash == b.StructureHash {
		result.Score = 1.0
		result.ExactMatch = true
		return result
	}

	breakdown := model.Breakdown{
		FileCount:   countRatio(a.FileCount, b.FileCount),
		SubdirCount: countRatio(a.SubdirCount, b.SubdirCount),
		Extension:   jaccardKeys(a.Extensions, b.Extensions),
		SubdirName:  jaccardSet(a.SubdirNames, b.SubdirNames),
		Depth:       depthSimilarity(a.Depth, b.Depth),
	}
	if s.weights.Size > 0 {
		breakdown.Size = sizeRatio(a, b)
	}

	score := s.weights.FileCount*breakdown.FileCount +
		s.weights.SubdirCount*breakdown.SubdirCount +
		s.weights.Extension*breakdown.Extension +
		s.weights.SubdirName*breakdown.SubdirName +
		s.weights.Depth*breakdown.Depth +
		s.weights.Size*breakdown.Size

	result.Score = clamp01(score)
	result.Breakdown = breakdown
	return result
}

// countRatio returns min/max of two non-negative counts.
// Both zero is a perfect match (1.0); exactly one zero is a total
// mismatch (0.0).
func countRatio(a, b int) float64 {
	if a == 0 && b == 0 {
		return 1.0
	}
	if a == 0 || b == 0 {
		return 0.0
	}
	if a > b {
		a, b = b, a
	}
	return float64(a) / float64(b)
}

// jaccardKeys computes the Jaccard overlap of the key sets of two
// multisets. Counts are deliberately ignored: ten .txt files overlap a
// directory with five .txt files fully on this metric; the count ratio
// metric captures the magnitude difference. Two empty sets overlap
// perfectly (1.0).
func jaccardKeys(a, b map[string]int) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// jaccardSet computes the Jaccard overlap of two string sets.
// Two empty sets overlap perfectly (1.0).
func jaccardSet(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// depthSimilarity scores depth proximity: 1 - |da-db| / max(da, db, 1),
// floored at 0. Two directories at the same nesting level score 1.0.
func depthSimilarity(a, b int) float64 {
	maxDepth := a
	if b > maxDepth {
		maxDepth = b
	}
	if maxDepth < 1 {
		maxDepth = 1
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	sim := 1.0 - float64(diff)/float64(maxDepth)
	if sim < 0 {
		return 0.0
	}
	return sim
}

// sizeRatio returns min/max of the two total sizes, with the same zero
// handling as countRatio. If either side lacks size information the
// metric cannot be evaluated and contributes 0.
func sizeRatio(a, b *model.StructureDescriptor) float64 {
	if !a.HasSize || !b.HasSize {
		return 0.0
	}
	if a.TotalSize == 0 && b.TotalSize == 0 {
		return 1.0
	}
	if a.TotalSize == 0 || b.TotalSize == 0 {
		return 0.0
	}
	lo, hi := a.TotalSize, b.TotalSize
	if lo > hi {
		lo, hi = hi, lo
	}
	return float64(lo) / float64(hi)
}

// clamp01 clamps v to [0,1]. The weighted sum of [0,1] terms with weights
// summing to 1 is already in range mathematically; the clamp guards
// against floating-point drift at the boundaries.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0.0
	}
	if v > 1 {
		return 1.0
	}
	return v
}
