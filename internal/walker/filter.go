package walker

import "github.com/dirtwin/dirtwin/internal/model"

// Policy holds the caller-side descriptor filters applied between
// fingerprinting and comparison. These are policies, not builder
// responsibilities: a zero-content directory is a perfectly valid
// descriptor, the question is whether comparing it is useful.
type Policy struct {
	// MinFileCount drops descriptors with fewer immediate files.
	// Zero keeps everything.
	MinFileCount int

	// IncludeEmpty keeps directories with no files and no
	// subdirectories. Disabled by default because every pair of empty
	// directories scores a perfect 1.0 under the metric definitions,
	// which floods the findings with uninteresting groups.
	IncludeEmpty bool
}

// Apply returns the descriptors that pass the policy, plus the number
// filtered out. The input order is preserved.
func (p Policy) Apply(descriptors []*model.StructureDescriptor) ([]*model.StructureDescriptor, int) {
	kept := make([]*model.StructureDescriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if p.keeps(d) {
			kept = append(kept, d)
		}
	}
	return kept, len(descriptors) - len(kept)
}

// keeps reports whether a single descriptor passes the policy.
func (p Policy) keeps(d *model.StructureDescriptor) bool {
	if !p.IncludeEmpty && d.IsEmpty() {
		return false
	}
	if d.FileCount < p.MinFileCount {
		return false
	}
	return true
}
