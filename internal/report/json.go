package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dirtwin/dirtwin/internal/model"
)

// JSONWriter writes reports in JSON format.
// The output is the findings document, which carries the ordered groups
// and summary counters but not the raw per-directory entries.
type JSONWriter struct {
	baseWriter
	indent string
	pretty bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent sets the indentation string for pretty printing.
func WithIndent(indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = indent
		w.pretty = true
	}
}

// WithPrettyPrint enables pretty printing with default indentation.
func WithPrettyPrint(pretty bool) JSONWriterOption {
	return func(w *JSONWriter) {
		w.pretty = pretty
		if pretty && w.indent == "" {
			w.indent = "  "
		}
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// By default output is pretty-printed with two-space indentation.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		indent:     "  ",
		pretty:     true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report findings as JSON.
func (w *JSONWriter) Write(report *model.ScanReport) (int, error) {
	return w.WriteFindings(findingsFor(report))
}

// WriteFindings outputs the findings as JSON.
func (w *JSONWriter) WriteFindings(findings *model.Findings) (int, error) {
	var data []byte
	var err error

	if w.pretty {
		data, err = json.MarshalIndent(findings, "", w.indent)
	} else {
		data, err = json.Marshal(findings)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to marshal findings to JSON: %w", err)
	}
	data = append(data, '\n')

	n, err := w.output.Write(data)
	if err != nil {
		return n, fmt.Errorf("failed to write JSON report: %w", err)
	}
	return n, nil
}
