package similarity

import (
	"errors"
	"testing"

	"github.com/dirtwin/dirtwin/internal/model"
)

// TestAssemble tests findings assembly and presentation ordering.
func TestAssemble(t *testing.T) {
	t.Parallel()

	t.Run("orders groups by member count then top score", func(t *testing.T) {
		t.Parallel()

		report := model.NewScanReport([]string{"/data"})
		report.DirectoriesScanned = 10
		report.Groups = []model.DuplicateGroup{
			{
				Members:  []string{"/data/a", "/data/b"},
				TopScore: 0.99,
				Pairs: []model.SimilarityResult{
					{PathA: "/data/a", PathB: "/data/b", Score: 0.99},
				},
			},
			{
				Members:  []string{"/data/x", "/data/y", "/data/z"},
				TopScore: 0.85,
				Pairs: []model.SimilarityResult{
					{PathA: "/data/x", PathB: "/data/y", Score: 0.85},
					{PathA: "/data/y", PathB: "/data/z", Score: 0.81},
				},
			},
			{
				Members:  []string{"/data/p", "/data/q"},
				TopScore: 0.90,
				Pairs: []model.SimilarityResult{
					{PathA: "/data/p", PathB: "/data/q", Score: 0.90},
				},
			},
		}

		findings := NewAssembler().Assemble(report)

		if findings.GroupCount != 3 {
			t.Fatalf("expected 3 groups, got %d", findings.GroupCount)
		}
		// Biggest group first, then pairs by descending top score.
		if findings.Groups[0].MemberCount != 3 {
			t.Errorf("expected largest group first, got %d members", findings.Groups[0].MemberCount)
		}
		if findings.Groups[1].TopScore != 0.99 {
			t.Errorf("expected higher-scored pair group second, got %v", findings.Groups[1].TopScore)
		}
		if findings.Groups[2].TopScore != 0.90 {
			t.Errorf("expected lower-scored pair group third, got %v", findings.Groups[2].TopScore)
		}
		// Ranks are 1-based and sequential.
		for i, g := range findings.Groups {
			if g.Rank != i+1 {
				t.Errorf("expected rank %d, got %d", i+1, g.Rank)
			}
		}
	})

	t.Run("computes summary counters", func(t *testing.T) {
		t.Parallel()

		report := model.NewScanReport([]string{"/data"})
		report.DirectoriesScanned = 20
		report.Descriptors = make([]*model.StructureDescriptor, 8)
		report.SkippedEntries = 1
		report.Groups = []model.DuplicateGroup{
			{
				Members:  []string{"/a", "/b", "/c"},
				TopScore: 0.95,
				Pairs: []model.SimilarityResult{
					{Score: 0.95}, {Score: 0.85},
				},
			},
			{
				Members:  []string{"/p", "/q"},
				TopScore: 0.97,
				Pairs:    []model.SimilarityResult{{Score: 0.97}},
			},
		}

		findings := NewAssembler().Assemble(report)

		if findings.DirectoriesScanned != 20 {
			t.Errorf("expected 20 scanned, got %d", findings.DirectoriesScanned)
		}
		if findings.DirectoriesCompared != 8 {
			t.Errorf("expected 8 compared, got %d", findings.DirectoriesCompared)
		}
		if findings.DuplicateDirCount != 5 {
			t.Errorf("expected 5 duplicate dirs, got %d", findings.DuplicateDirCount)
		}
		if findings.LargestGroup != 3 {
			t.Errorf("expected largest group 3, got %d", findings.LargestGroup)
		}
		if findings.TopScore != 0.97 {
			t.Errorf("expected top score 0.97, got %v", findings.TopScore)
		}
		if findings.SkippedEntries != 1 {
			t.Errorf("expected 1 skipped entry, got %d", findings.SkippedEntries)
		}
	})

	t.Run("mean score averages the triggering pairs", func(t *testing.T) {
		t.Parallel()

		report := model.NewScanReport([]string{"/data"})
		report.Groups = []model.DuplicateGroup{
			{
				Members: []string{"/a", "/b", "/c"},
				Pairs: []model.SimilarityResult{
					{Score: 1.0}, {Score: 0.8},
				},
			},
		}

		findings := NewAssembler().Assemble(report)

		if findings.Groups[0].MeanScore != 0.9 {
			t.Errorf("expected mean score 0.9, got %v", findings.Groups[0].MeanScore)
		}
	})

	t.Run("carries error and timeout state", func(t *testing.T) {
		t.Parallel()

		report := model.NewScanReport([]string{"/data"})
		report.TimedOut = true
		report.Error = errors.New("walk interrupted")

		findings := NewAssembler().Assemble(report)

		if !findings.TimedOut {
			t.Error("expected TimedOut to carry over")
		}
		if findings.Error != "walk interrupted" {
			t.Errorf("expected error message, got %q", findings.Error)
		}
	})

	t.Run("empty report assembles empty findings", func(t *testing.T) {
		t.Parallel()

		report := model.NewScanReport([]string{"/data"})

		findings := NewAssembler().Assemble(report)

		if findings.HasGroups() {
			t.Error("expected no groups")
		}
		if findings.DuplicateDirCount != 0 {
			t.Errorf("expected 0 duplicate dirs, got %d", findings.DuplicateDirCount)
		}
	})
}
