package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dirtwin/dirtwin/internal/config"
	"github.com/dirtwin/dirtwin/internal/model"
	"github.com/dirtwin/dirtwin/internal/similarity"
	"github.com/dirtwin/dirtwin/internal/walker"
)

// CollectSpec pairs one scan root with the walker configured for it.
// Per-root profiles from the config file produce different walkers
// (exclusions, depth limit) and an optional minimum-file pre-filter.
type CollectSpec struct {
	// Root is the directory to walk.
	Root string

	// Walker performs the traversal for this root.
	Walker *walker.Walker

	// MinFiles drops entries with fewer immediate files at collect time.
	// Zero disables the pre-filter (the global policy still applies
	// during fingerprinting).
	MinFiles int
}

// CollectStep walks every scan root and accumulates the raw directory
// entries on the report. A root that cannot be walked at all is a
// critical failure; unreadable directories inside a root were already
// logged and skipped by the walker.
type CollectStep struct {
	specs  []CollectSpec
	logger *slog.Logger
}

// CollectStepOption configures a CollectStep.
type CollectStepOption func(*CollectStep)

// WithCollectLogger sets a custom logger for the collect step.
func WithCollectLogger(logger *slog.Logger) CollectStepOption {
	return func(s *CollectStep) {
		s.logger = logger
	}
}

// NewCollectStep creates a collect step for the given root specs.
func NewCollectStep(specs []CollectSpec, opts ...CollectStepOption) *CollectStep {
	s := &CollectStep{
		specs:  specs,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *CollectStep) Name() string {
	return "collect"
}

// Do executes the collect step.
func (s *CollectStep) Do(ctx context.Context, report *model.ScanReport) error {
	for _, spec := range s.specs {
		entries, err := spec.Walker.Walk(ctx, spec.Root)
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", spec.Root, err)
		}

		for _, entry := range entries {
			if spec.MinFiles > 0 && len(entry.Files) < spec.MinFiles {
				report.FilteredOut++
				continue
			}
			report.Entries = append(report.Entries, entry)
		}

		s.logger.Debug("collected root", "root", spec.Root, "directories", len(entries))
	}

	report.DirectoriesScanned = len(report.Entries) + report.FilteredOut
	return nil
}

// FingerprintStep turns the raw entries into structure descriptors and
// applies the global comparison policy. Malformed entries are logged and
// skipped rather than failing the run; partial results remain valuable.
type FingerprintStep struct {
	policy walker.Policy
	logger *slog.Logger
}

// FingerprintStepOption configures a FingerprintStep.
type FingerprintStepOption func(*FingerprintStep)

// WithFingerprintLogger sets a custom logger for the fingerprint step.
func WithFingerprintLogger(logger *slog.Logger) FingerprintStepOption {
	return func(s *FingerprintStep) {
		s.logger = logger
	}
}

// NewFingerprintStep creates a fingerprint step with the given policy.
func NewFingerprintStep(policy walker.Policy, opts ...FingerprintStepOption) *FingerprintStep {
	s := &FingerprintStep{
		policy: policy,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *FingerprintStep) Name() string {
	return "fingerprint"
}

// Do executes the fingerprint step.
func (s *FingerprintStep) Do(_ context.Context, report *model.ScanReport) error {
	descriptors := make([]*model.StructureDescriptor, 0, len(report.Entries))
	for _, entry := range report.Entries {
		d, err := model.NewStructureDescriptor(entry)
		if err != nil {
			if errors.Is(err, model.ErrMalformedEntry) {
				s.logger.Warn("skipping malformed entry", "path", entry.Path, "error", err)
				report.SkippedEntries++
				continue
			}
			return err
		}
		descriptors = append(descriptors, d)
	}

	kept, filtered := s.policy.Apply(descriptors)
	report.Descriptors = kept
	report.FilteredOut += filtered

	s.logger.Debug("fingerprinting complete",
		"descriptors", len(kept),
		"skipped", report.SkippedEntries,
		"filtered", report.FilteredOut,
	)
	return nil
}

// ScoreStep runs the all-pairs comparison and the transitive grouping.
type ScoreStep struct {
	grouper *similarity.Grouper
}

// NewScoreStep creates a score step around the given grouper.
func NewScoreStep(grouper *similarity.Grouper) *ScoreStep {
	return &ScoreStep{grouper: grouper}
}

// Name returns the step name.
func (s *ScoreStep) Name() string {
	return "score"
}

// Do executes the score step.
func (s *ScoreStep) Do(ctx context.Context, report *model.ScanReport) error {
	pairs, groups, err := s.grouper.FindGroups(ctx, report.Descriptors)
	if err != nil {
		return fmt.Errorf("pairwise comparison failed: %w", err)
	}

	report.Pairs = pairs
	report.Groups = groups
	report.Threshold = s.grouper.Threshold()
	return nil
}

// AssembleStep orders the groups for presentation and attaches the
// findings to the report.
type AssembleStep struct {
	assembler *similarity.Assembler
}

// NewAssembleStep creates an assemble step.
func NewAssembleStep() *AssembleStep {
	return &AssembleStep{assembler: similarity.NewAssembler()}
}

// Name returns the step name.
func (s *AssembleStep) Name() string {
	return "assemble"
}

// Do executes the assemble step.
func (s *AssembleStep) Do(_ context.Context, report *model.ScanReport) error {
	report.Findings = s.assembler.Assemble(report)
	return nil
}

// DefaultPipeline builds the standard scan pipeline from a validated
// configuration: collect, fingerprint, score, assemble. Per-root profiles
// from the config file are folded into each root's walker here.
func DefaultPipeline(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	scorer, err := similarity.NewScorer(cfg.Weights)
	if err != nil {
		return nil, err
	}

	grouper, err := similarity.NewGrouper(scorer, cfg.Threshold,
		similarity.WithWorkers(cfg.Workers),
		similarity.WithGrouperLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	specs := make([]CollectSpec, 0, len(cfg.Roots))
	for _, root := range cfg.Roots {
		excludes := cfg.ExcludePatterns
		maxDepth := cfg.MaxDepth
		minFiles := 0

		if cfg.Profiles != nil {
			profile := cfg.Profiles.ProfileFor(root)
			if len(profile.ExcludePatterns) > 0 {
				excludes = append(append([]string{}, excludes...), profile.ExcludePatterns...)
			}
			if profile.MaxDepth > 0 {
				maxDepth = profile.MaxDepth
			}
			minFiles = profile.MinFileCount
		}

		specs = append(specs, CollectSpec{
			Root: root,
			Walker: walker.New(
				walker.WithMaxDepth(maxDepth),
				walker.WithExcludePatterns(excludes),
				walker.WithSizes(cfg.IncludeSizes),
				walker.WithLogger(logger),
			),
			MinFiles: minFiles,
		})
	}

	policy := walker.Policy{
		MinFileCount: cfg.MinFileCount,
		IncludeEmpty: cfg.IncludeEmpty,
	}

	p := New(append([]Option{WithLogger(logger)}, opts...)...)
	p.AddSteps(
		NewCollectStep(specs, WithCollectLogger(logger)),
		NewFingerprintStep(policy, WithFingerprintLogger(logger)),
		NewScoreStep(grouper),
		NewAssembleStep(),
	)
	return p, nil
}
