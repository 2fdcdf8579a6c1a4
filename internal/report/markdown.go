package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dirtwin/dirtwin/internal/model"
	"github.com/dustin/go-humanize"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	return w.WriteFindings(findingsFor(report))
}

// WriteFindings outputs the findings in Markdown format.
func (w *MarkdownWriter) WriteFindings(findings *model.Findings) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, findings)
	w.writeSummary(md, findings)
	w.writeGroups(md, findings)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, findings *model.Findings) {
	md.H1("Duplicate Structure Report")
	md.PlainText("")

	roots := make([]string, 0, len(findings.Roots))
	for _, root := range findings.Roots {
		roots = append(roots, "`"+root+"`")
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Roots", strings.Join(roots, ", ")},
			{"Scan Date", findings.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Directories Scanned", strconv.Itoa(findings.DirectoriesScanned)},
			{"Directories Compared", strconv.Itoa(findings.DirectoriesCompared)},
			{"Status", w.getStatusText(findings)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on findings state.
func (w *MarkdownWriter) getStatusText(findings *model.Findings) string {
	if findings.TimedOut {
		return "⚠️ Timed Out (partial results)"
	}
	if findings.Error != "" {
		return "❌ Error - " + findings.Error
	}
	return "✅ Complete"
}

// writeSummary writes the duplicate summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, findings *model.Findings) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Duplicate Groups", strconv.Itoa(findings.GroupCount)},
			{"Duplicate Directories", strconv.Itoa(findings.DuplicateDirCount)},
			{"Largest Group", strconv.Itoa(findings.LargestGroup)},
			{"Top Score", fmt.Sprintf("%.3f", findings.TopScore)},
			{"Skipped Entries", strconv.Itoa(findings.SkippedEntries)},
		},
	})
	md.PlainText("")

	if findings.HasGroups() {
		w.writePieChart(md, findings)
	}

	w.writeAlert(md, findings)
}

// writePieChart writes a mermaid pie chart of group sizes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, findings *model.Findings) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Group Size Distribution"),
		piechart.WithShowData(true),
	)

	var pairs, small, large int
	for _, group := range findings.Groups {
		switch {
		case group.MemberCount == 2:
			pairs++
		case group.MemberCount <= 4:
			small++
		default:
			large++
		}
	}

	if pairs > 0 {
		chart.LabelAndIntValue("Pairs (2 dirs)", uint64(pairs))
	}
	if small > 0 {
		chart.LabelAndIntValue("Small (3-4 dirs)", uint64(small))
	}
	if large > 0 {
		chart.LabelAndIntValue("Large (5+ dirs)", uint64(large))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on duplicate counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, findings *model.Findings) {
	switch {
	case findings.LargestGroup >= 5:
		md.Cautionf(
			"Large duplicate cluster detected. The biggest group spans %d directories.",
			findings.LargestGroup,
		)
	case findings.DuplicateDirCount >= 10:
		md.Warningf(
			"%d directories share a duplicated structure across %d group(s).",
			findings.DuplicateDirCount, findings.GroupCount,
		)
	case findings.HasGroups():
		md.Importantf(
			"%d duplicate group(s) found. Review candidates before consolidating.",
			findings.GroupCount,
		)
	default:
		md.Tip("No duplicate directory structures detected.")
	}
	md.PlainText("")
}

// writeGroups writes all duplicate groups with member and pair tables.
func (w *MarkdownWriter) writeGroups(md *markdown.Markdown, findings *model.Findings) {
	md.H2("Duplicate Groups")
	md.PlainText("")

	if !findings.HasGroups() {
		md.PlainText("No duplicate groups detected.")
		md.PlainText("")
		return
	}

	for _, group := range findings.Groups {
		w.writeGroup(md, group)
	}
}

// writeGroup writes a single group section.
func (w *MarkdownWriter) writeGroup(md *markdown.Markdown, group model.GroupFinding) {
	md.PlainTextf("### Group %d", group.Rank)
	md.PlainText("")

	rows := [][]string{
		{"Members", strconv.Itoa(group.MemberCount)},
		{"Top Score", fmt.Sprintf("%.3f", group.TopScore)},
		{"Mean Score", fmt.Sprintf("%.3f", group.MeanScore)},
	}
	if group.HasSize {
		rows = append(rows, []string{"Total Size", humanize.IBytes(uint64(group.TotalSize))})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	members := make([]string, 0, len(group.Members))
	for _, member := range group.Members {
		members = append(members, "`"+member+"`")
	}
	md.BulletList(members...)
	md.PlainText("")

	if len(group.Pairs) > 0 {
		w.writePairsTable(md, group.Pairs)
	}
}

// writePairsTable writes the triggering pairs with component breakdowns.
func (w *MarkdownWriter) writePairsTable(md *markdown.Markdown, pairs []model.SimilarityResult) {
	headers := []string{"Directory A", "Directory B", "Score", "Files", "Subdirs", "Ext", "Names", "Depth"}

	rows := make([][]string, len(pairs))
	for i, pair := range pairs {
		score := fmt.Sprintf("%.3f", pair.Score)
		if pair.ExactMatch {
			score = "**" + score + "**"
		}
		rows[i] = []string{
			"`" + truncateString(pair.PathA, 50) + "`",
			"`" + truncateString(pair.PathB, 50) + "`",
			score,
			fmt.Sprintf("%.2f", pair.Breakdown.FileCount),
			fmt.Sprintf("%.2f", pair.Breakdown.SubdirCount),
			fmt.Sprintf("%.2f", pair.Breakdown.Extension),
			fmt.Sprintf("%.2f", pair.Breakdown.SubdirName),
			fmt.Sprintf("%.2f", pair.Breakdown.Depth),
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [dirtwin](https://github.com/dirtwin/dirtwin)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
