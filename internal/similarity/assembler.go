package similarity

import (
	"sort"

	"github.com/dirtwin/dirtwin/internal/model"
)

// Assembler orders the grouper's output for presentation and packages it
// into the Findings structure consumed by the report writers.
//
// Ordering policy: groups with more members first (bigger duplication is
// more interesting), then higher top pairwise score, then first member
// path for a stable tail order. This is purely a presentation step; it
// never recomputes scores or membership.
type Assembler struct{}

// NewAssembler creates an Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble builds the ordered findings from an accumulated scan report.
func (a *Assembler) Assemble(report *model.ScanReport) *model.Findings {
	findings := &model.Findings{
		Roots:               report.Roots,
		DateScanned:         report.DateScanned,
		DirectoriesScanned:  report.DirectoriesScanned,
		DirectoriesCompared: len(report.Descriptors),
		GroupCount:          len(report.Groups),
		SkippedEntries:      report.SkippedEntries,
		TimedOut:            report.TimedOut,
	}
	if report.Error != nil {
		findings.Error = report.Error.Error()
	}

	ordered := make([]model.DuplicateGroup, len(report.Groups))
	copy(ordered, report.Groups)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Size() != ordered[j].Size() {
			return ordered[i].Size() > ordered[j].Size()
		}
		if ordered[i].TopScore != ordered[j].TopScore {
			return ordered[i].TopScore > ordered[j].TopScore
		}
		return ordered[i].Members[0] < ordered[j].Members[0]
	})

	for i, group := range ordered {
		finding := model.GroupFinding{
			Rank:        i + 1,
			Members:     group.Members,
			MemberCount: group.Size(),
			TopScore:    group.TopScore,
			MeanScore:   meanScore(group.Pairs),
			TotalSize:   group.TotalSize,
			HasSize:     group.HasSize,
			Pairs:       group.Pairs,
		}
		findings.Groups = append(findings.Groups, finding)
		findings.DuplicateDirCount += finding.MemberCount

		if finding.MemberCount > findings.LargestGroup {
			findings.LargestGroup = finding.MemberCount
		}
		if finding.TopScore > findings.TopScore {
			findings.TopScore = finding.TopScore
		}
	}

	return findings
}

// meanScore averages the triggering pairwise scores of a group.
func meanScore(pairs []model.SimilarityResult) float64 {
	if len(pairs) == 0 {
		return 0.0
	}
	var sum float64
	for _, p := range pairs {
		sum += p.Score
	}
	return sum / float64(len(pairs))
}
