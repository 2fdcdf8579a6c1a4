package report

import (
	"io"

	"github.com/dirtwin/dirtwin/internal/model"
)

// Writer defines the interface for report output.
// Implementations write scan results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or buffers
// with the same API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ScanReport) (int, error)

	// WriteFindings outputs only the ordered findings portion.
	// This is useful when the findings were loaded without the full
	// report (e.g., from the scan database).
	WriteFindings(findings *model.Findings) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than using
// io.MultiWriter because our Writer interface is different from io.Writer
// - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.ScanReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteFindings outputs the findings to all configured Writers.
func (m *MultiWriter) WriteFindings(findings *model.Findings) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteFindings(findings)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// findingsFor returns the report's findings, assembling a minimal stand-in
// when the assemble step did not run (e.g., a pipeline aborted early).
func findingsFor(report *model.ScanReport) *model.Findings {
	if report.Findings != nil {
		return report.Findings
	}
	f := &model.Findings{
		Roots:               report.Roots,
		DateScanned:         report.DateScanned,
		DirectoriesScanned:  report.DirectoriesScanned,
		DirectoriesCompared: len(report.Descriptors),
		GroupCount:          len(report.Groups),
		SkippedEntries:      report.SkippedEntries,
		TimedOut:            report.TimedOut,
	}
	f.Error = report.ErrorMessage
	return f
}
