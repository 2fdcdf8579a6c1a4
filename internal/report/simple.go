package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dirtwin/dirtwin/internal/model"
	"github.com/dustin/go-humanize"
)

// SimpleWriter writes human-readable text reports to the terminal.
// It shows duplicate groups with their members and scores in a
// compact form suitable for interactive use.
type SimpleWriter struct {
	baseWriter
	verbose     bool
	maxGroups   int
	showPairs   bool
	bannerWidth int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerboseOutput enables detailed output including per-pair
// component breakdowns.
func WithVerboseOutput(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithMaxGroups limits the number of groups printed. Zero means no limit.
func WithMaxGroups(max int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.maxGroups = max
	}
}

// WithPairDetails enables printing the triggering pairs of each group.
func WithPairDetails(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showPairs = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter:  newBaseWriter(output),
		bannerWidth: 60,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs a human-readable report.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	return w.WriteFindings(findingsFor(report))
}

// WriteFindings outputs the findings in human-readable form.
func (w *SimpleWriter) WriteFindings(findings *model.Findings) (int, error) {
	var total int

	n, err := w.writeHeader(findings)
	total += n
	if err != nil {
		return total, err
	}

	if findings.Error != "" {
		n, err = fmt.Fprintf(w.output, "ERROR: %s\n", findings.Error)
		total += n
		if err != nil {
			return total, err
		}
	}
	if findings.TimedOut {
		n, err = fmt.Fprintf(w.output, "WARNING: scan timed out before completion; results are partial\n")
		total += n
		if err != nil {
			return total, err
		}
	}

	if !findings.HasGroups() {
		n, err = fmt.Fprintf(w.output, "No duplicate directory structures found.\n")
		total += n
		return total, err
	}

	groups := findings.Groups
	if w.maxGroups > 0 && len(groups) > w.maxGroups {
		groups = groups[:w.maxGroups]
	}

	for _, group := range groups {
		n, err = w.writeGroup(group)
		total += n
		if err != nil {
			return total, err
		}
	}

	if w.maxGroups > 0 && findings.GroupCount > w.maxGroups {
		n, err = fmt.Fprintf(w.output, "... and %d more group(s)\n", findings.GroupCount-w.maxGroups)
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = w.writeSummary(findings)
	total += n
	return total, err
}

func (w *SimpleWriter) writeHeader(findings *model.Findings) (int, error) {
	var total int
	banner := strings.Repeat("=", w.bannerWidth)

	n, err := fmt.Fprintf(w.output, "%s\n", banner)
	total += n
	if err != nil {
		return total, err
	}

	n, err = fmt.Fprintf(w.output, "Duplicate Structure Report: %s\n", strings.Join(findings.Roots, ", "))
	total += n
	if err != nil {
		return total, err
	}

	if !findings.DateScanned.IsZero() {
		n, err = fmt.Fprintf(w.output, "Scanned: %s\n", findings.DateScanned.Format("2006-01-02 15:04:05 MST"))
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = fmt.Fprintf(w.output, "%s\n\n", banner)
	total += n
	return total, err
}

func (w *SimpleWriter) writeGroup(group model.GroupFinding) (int, error) {
	var total int

	sizeNote := ""
	if group.HasSize {
		sizeNote = fmt.Sprintf(", %s", humanize.IBytes(uint64(group.TotalSize)))
	}
	n, err := fmt.Fprintf(w.output, "Group %d (%d directories, top score %.3f%s)\n",
		group.Rank, group.MemberCount, group.TopScore, sizeNote)
	total += n
	if err != nil {
		return total, err
	}

	for _, member := range group.Members {
		n, err = fmt.Fprintf(w.output, "  %s\n", member)
		total += n
		if err != nil {
			return total, err
		}
	}

	if w.showPairs || w.verbose {
		for _, pair := range group.Pairs {
			n, err = w.writePair(pair)
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	n, err = fmt.Fprintf(w.output, "\n")
	total += n
	return total, err
}

func (w *SimpleWriter) writePair(pair model.SimilarityResult) (int, error) {
	var total int

	marker := ""
	if pair.ExactMatch {
		marker = " [exact]"
	}
	n, err := fmt.Fprintf(w.output, "    %.3f%s  %s <-> %s\n", pair.Score, marker, pair.PathA, pair.PathB)
	total += n
	if err != nil {
		return total, err
	}

	if w.verbose {
		b := pair.Breakdown
		n, err = fmt.Fprintf(w.output, "           files=%.2f subdirs=%.2f ext=%.2f names=%.2f depth=%.2f\n",
			b.FileCount, b.SubdirCount, b.Extension, b.SubdirName, b.Depth)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (w *SimpleWriter) writeSummary(findings *model.Findings) (int, error) {
	var total int
	banner := strings.Repeat("-", w.bannerWidth)

	n, err := fmt.Fprintf(w.output, "%s\n", banner)
	total += n
	if err != nil {
		return total, err
	}

	n, err = fmt.Fprintf(w.output, "Scanned %d directories, compared %d\n",
		findings.DirectoriesScanned, findings.DirectoriesCompared)
	total += n
	if err != nil {
		return total, err
	}

	n, err = fmt.Fprintf(w.output, "Found %d duplicate group(s) covering %d directories\n",
		findings.GroupCount, findings.DuplicateDirCount)
	total += n
	if err != nil {
		return total, err
	}

	if findings.SkippedEntries > 0 {
		n, err = fmt.Fprintf(w.output, "Skipped %d malformed entries\n", findings.SkippedEntries)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
