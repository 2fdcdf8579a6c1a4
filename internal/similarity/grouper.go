package similarity

import (
	"context"
	"log/slog"
	"sort"

	"github.com/dirtwin/dirtwin/internal/model"
	"golang.org/x/sync/errgroup"
)

// Grouper runs the all-pairs comparison and merges above-threshold pairs
// into duplicate-structure groups.
//
// The comparison is O(n²) in the number of descriptors, each comparison
// O(1) amortized because the descriptor sets were built once up front.
// With more than one worker the pair matrix is scored row-wise on an
// errgroup pool; the union-find merge always runs sequentially after the
// workers join, so the output is identical to the sequential algorithm.
type Grouper struct {
	// scorer computes each pairwise score.
	scorer *Scorer

	// threshold is the minimum score for a pair to be retained, in (0,1].
	threshold float64

	// workers is the maximum number of concurrent scoring goroutines.
	workers int

	// logger is used for structured logging during grouping.
	logger *slog.Logger
}

// GrouperOption configures a Grouper.
type GrouperOption func(*Grouper)

// WithWorkers sets the maximum number of concurrent scoring goroutines.
// Default is 1 (fully sequential).
func WithWorkers(n int) GrouperOption {
	return func(g *Grouper) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithGrouperLogger sets a custom logger for the grouper.
func WithGrouperLogger(logger *slog.Logger) GrouperOption {
	return func(g *Grouper) {
		g.logger = logger
	}
}

// NewGrouper creates a Grouper. The threshold must be in (0,1]; anything
// else is a caller contract violation rejected before any comparison work.
func NewGrouper(scorer *Scorer, threshold float64, opts ...GrouperOption) (*Grouper, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, ErrInvalidThreshold
	}

	g := &Grouper{
		scorer:    scorer,
		threshold: threshold,
		workers:   1,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g, nil
}

// Threshold returns the configured similarity threshold.
func (g *Grouper) Threshold() float64 {
	return g.threshold
}

// FindGroups enumerates all unordered descriptor pairs (i < j), retains
// those scoring at or above the threshold, and merges them transitively
// into groups.
//
// The retained pairs come back sorted by descending score, ties broken by
// lexical path order for determinism. Groups have lexically sorted members
// and are ordered by their first member; presentation ordering is the
// assembler's job.
func (g *Grouper) FindGroups(ctx context.Context, descriptors []*model.StructureDescriptor) ([]model.SimilarityResult, []model.DuplicateGroup, error) {
	n := len(descriptors)
	if n < 2 {
		return nil, nil, nil
	}

	g.logger.Debug("starting pairwise comparison",
		"descriptors", n,
		"pairs", n*(n-1)/2,
		"threshold", g.threshold,
		"workers", g.workers,
	)

	rows, err := g.scoreRows(ctx, descriptors)
	if err != nil {
		return nil, nil, err
	}

	// Flatten the per-row results, then order for presentation. Only
	// above-threshold pairs were retained, so memory stays proportional
	// to the findings rather than the full O(n²) matrix.
	var pairs []model.SimilarityResult
	for _, row := range rows {
		pairs = append(pairs, row...)
	}
	sortPairs(pairs)

	groups := g.mergeGroups(descriptors, pairs)

	g.logger.Debug("pairwise comparison complete",
		"retained_pairs", len(pairs),
		"groups", len(groups),
	)

	return pairs, groups, nil
}

// scoreRows scores every pair (i, j) with i < j, keeping only pairs at or
// above the threshold. Row i holds the retained pairs whose first index is
// i. Each row is written by exactly one goroutine, so no locking is needed
// around the shared slice.
func (g *Grouper) scoreRows(ctx context.Context, descriptors []*model.StructureDescriptor) ([][]model.SimilarityResult, error) {
	n := len(descriptors)
	rows := make([][]model.SimilarityResult, n)

	if g.workers <= 1 {
		for i := 0; i < n-1; i++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			rows[i] = g.scoreRow(descriptors, i)
		}
		return rows, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for i := 0; i < n-1; i++ {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			rows[i] = g.scoreRow(descriptors, i)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// scoreRow scores descriptor i against all descriptors after it and
// returns the retained pairs.
func (g *Grouper) scoreRow(descriptors []*model.StructureDescriptor, i int) []model.SimilarityResult {
	var retained []model.SimilarityResult
	for j := i + 1; j < len(descriptors); j++ {
		result := g.scorer.Score(descriptors[i], descriptors[j])
		if result.Score >= g.threshold {
			retained = append(retained, result)
		}
	}
	return retained
}

// mergeGroups performs the transitive union-find merge of the retained
// pairs and materializes the groups.
func (g *Grouper) mergeGroups(descriptors []*model.StructureDescriptor, pairs []model.SimilarityResult) []model.DuplicateGroup {
	if len(pairs) == 0 {
		return nil
	}

	index := make(map[string]int, len(descriptors))
	for i, d := range descriptors {
		index[d.Path] = i
	}

	uf := newUnionFind(len(descriptors))
	for _, p := range pairs {
		uf.union(index[p.PathA], index[p.PathB])
	}

	// Collect component members in input order for determinism.
	components := make(map[int][]int)
	for i := range descriptors {
		root := uf.find(i)
		components[root] = append(components[root], i)
	}

	var groups []model.DuplicateGroup
	groupOf := make(map[int]int) // union-find root -> index into groups
	for i := range descriptors {
		root := uf.find(i)
		members, ok := components[root]
		if !ok || len(members) < 2 {
			continue
		}
		delete(components, root) // emit each component once

		group := model.DuplicateGroup{
			Members: make([]string, 0, len(members)),
			HasSize: true,
		}
		for _, idx := range members {
			d := descriptors[idx]
			group.Members = append(group.Members, d.Path)
			group.TotalSize += d.TotalSize
			if !d.HasSize {
				group.HasSize = false
			}
		}
		if !group.HasSize {
			group.TotalSize = 0
		}
		sort.Strings(group.Members)

		groupOf[root] = len(groups)
		groups = append(groups, group)
	}

	// Attach the triggering pairs. Pairs are already sorted by descending
	// score, so each group's pair list inherits that order and the first
	// assigned pair is the group's top score.
	for _, p := range pairs {
		root := uf.find(index[p.PathA])
		gi, ok := groupOf[root]
		if !ok {
			continue
		}
		if len(groups[gi].Pairs) == 0 {
			groups[gi].TopScore = p.Score
		}
		groups[gi].Pairs = append(groups[gi].Pairs, p)
	}

	return groups
}

// sortPairs orders results by descending score; ties break on lexical
// (PathA, PathB) so repeated runs over the same input produce identical
// output.
func sortPairs(pairs []model.SimilarityResult) {
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		if pairs[i].PathA != pairs[j].PathA {
			return pairs[i].PathA < pairs[j].PathA
		}
		return pairs[i].PathB < pairs[j].PathB
	})
}
