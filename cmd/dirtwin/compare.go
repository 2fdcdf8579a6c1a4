package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dirtwin/dirtwin/internal/config"
	"github.com/dirtwin/dirtwin/internal/database"
	"github.com/dirtwin/dirtwin/internal/model"
	"github.com/spf13/cobra"
)

// Constants for trend direction and summary messages.
const (
	trendWorsened     = "worsened"
	trendImproved     = "improved"
	trendUnchanged    = "unchanged"
	noGroupsMessage   = "No duplicates"
	groupKeySeparator = "\x1f"
)

// NewCompareCmd creates the compare command.
// This command compares scan results with historical data stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <root> [root...]",
		Short: "Compare scan results with historical data",
		Long: `Compare displays differences between the current and previous scan results.

This command retrieves historical scan data from the database and shows:
- New duplicate groups that appeared since the last scan
- Resolved groups that are no longer present
- Changes in the overall duplicate counts

The comparison requires at least two scans in the database for the same
root set. Use 'dirtwin scan' to perform scans and save results.

Examples:
  # Compare latest two scans for a root
  dirtwin compare ~/photos

  # List all scan history for a root set
  dirtwin compare --list ~/photos ~/backup/photos

  # Compare with a specific historical scan by ID
  dirtwin compare --with-scan-id 5 ~/photos

  # Compare scans since a specific date
  dirtwin compare --since "2026-01-01" ~/photos

  # Output comparison in JSON format
  dirtwin compare --json ~/photos

  # List all scanned root sets in the database
  dirtwin compare --list-roots`,
		Args: cobra.ArbitraryArgs,
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List scan history for the specified roots")
	cmd.Flags().BoolP("list-roots", "L", false,
		"List all scanned root sets in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-scan-id", "i", 0,
		"Compare with a specific scan by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first scan after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-roots flag first (requires database but no roots)
	listRoots, err := cmd.Flags().GetBool("list-roots")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-roots)
	// This prevents database lock issues when validation fails
	var rootKey string
	if !listRoots {
		if len(args) == 0 {
			return errors.New("at least one root is required (use --list-roots to see available root sets)")
		}
		rootKey = database.RootKey(args)
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	// Open database
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Handle --list-roots flag
	if listRoots {
		return listScannedRoots(ctx, db)
	}

	// Handle --list flag
	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listScanHistory(ctx, db, rootKey)
	}

	// Get output format flags
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	// Get comparison target flags
	withScanID, err := cmd.Flags().GetInt64("with-scan-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	// Perform comparison
	return runComparison(ctx, db, rootKey, withScanID, sinceDate, jsonOutput, markdownOutput)
}

// listScannedRoots lists all root sets that have scan records in the database.
func listScannedRoots(ctx context.Context, db *database.ScanDB) error {
	rootKeys, err := db.ListRootKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list root sets: %w", err)
	}

	if len(rootKeys) == 0 {
		fmt.Println("No scanned root sets found in the database.")
		fmt.Println("\nUse 'dirtwin scan <root>' to scan a directory tree.")
		return nil
	}

	fmt.Printf("Scanned root sets (%d):\n\n", len(rootKeys))
	for _, key := range rootKeys {
		fmt.Printf("  • %s\n", database.RootKeyDisplay(key))
	}
	fmt.Println("\nUse 'dirtwin compare --list <root>...' to see scan history for a root set.")

	return nil
}

// listScanHistory lists the scan history for a root set.
func listScanHistory(ctx context.Context, db *database.ScanDB, rootKey string) error {
	reports, err := db.GetScanHistoryWithMetadata(ctx, rootKey)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no scan history found for %s", database.RootKeyDisplay(rootKey))
	}

	fmt.Printf("Scan history for %s (%d scans):\n\n", database.RootKeyDisplay(rootKey), len(reports))
	fmt.Printf("  %-6s  %-20s  %s\n", "ID", "Date", "Duplicates")
	fmt.Println("  " + strings.Repeat("-", 60))

	for _, meta := range reports {
		fmt.Printf("  %-6d  %-20s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			formatDuplicateSummary(meta.Summary),
		)
	}

	fmt.Println("\nUse 'dirtwin compare <root>...' to compare the latest two scans.")
	fmt.Println("Use 'dirtwin compare --with-scan-id <id> <root>...' to compare with a specific scan.")

	return nil
}

// formatDuplicateSummary formats the summary map into a human-readable string.
func formatDuplicateSummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	if v := summary["groups"]; v > 0 {
		parts = append(parts, fmt.Sprintf("G:%d", v))
	}
	if v := summary["duplicate_dirs"]; v > 0 {
		parts = append(parts, fmt.Sprintf("D:%d", v))
	}
	if v := summary["largest_group"]; v > 0 {
		parts = append(parts, fmt.Sprintf("L:%d", v))
	}

	if len(parts) == 0 {
		return noGroupsMessage
	}
	return strings.Join(parts, " ")
}

// runComparison performs the actual comparison between scan reports.
func runComparison(ctx context.Context, db *database.ScanDB, rootKey string, withScanID int64, sinceDate string, jsonOutput, markdownOutput bool) error {
	// Get the scan history
	reports, err := db.GetScanHistory(ctx, rootKey)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no scan history found for %s", database.RootKeyDisplay(rootKey))
	}

	if len(reports) < 2 && withScanID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 scans are required for comparison (found %d)", len(reports))
	}

	// Determine which reports to compare
	var currentReport, previousReport *model.ScanReport

	// Latest report is always the current one
	currentReport = reports[0]

	if withScanID > 0 {
		// Find the report with the specified ID
		previousReport, err = db.GetScanReportByID(ctx, withScanID)
		if err != nil {
			return fmt.Errorf("failed to get scan with ID %d: %w", withScanID, err)
		}
		if previousReport == nil {
			return fmt.Errorf("scan with ID %d not found", withScanID)
		}
		// Validate that the scan ID belongs to the same root set
		if database.RootKey(previousReport.Roots) != rootKey {
			return fmt.Errorf("scan ID %d belongs to %s, not %s",
				withScanID,
				database.RootKeyDisplay(database.RootKey(previousReport.Roots)),
				database.RootKeyDisplay(rootKey))
		}
	} else if sinceDate != "" {
		// Parse the date and find the first (oldest) report at or after the specified date
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Reports are sorted by timestamp DESC (newest first), so iterate in reverse
		// to find the first (oldest) report at or after the date
		for i := len(reports) - 1; i >= 0; i-- {
			r := reports[i]
			if r.DateScanned.After(parsedDate) || r.DateScanned.Equal(parsedDate) {
				previousReport = r
				break
			}
		}
		if previousReport == nil {
			return fmt.Errorf("no scans found since %s", sinceDate)
		}
		// If only one scan matches and it's the current report, we can't compare
		if previousReport == currentReport {
			return fmt.Errorf("only one scan found since %s; at least 2 scans are required for comparison", sinceDate)
		}
	} else {
		// Default: compare with the previous scan
		previousReport = reports[1]
	}

	// Generate comparison result
	comparison := compareReports(previousReport, currentReport)

	// Output the result
	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two scan reports.
type ComparisonResult struct {
	// Roots are the scanned root directories.
	Roots []string `json:"roots"`

	// PreviousScan contains metadata about the previous scan.
	PreviousScan ScanMetadata `json:"previous_scan"`

	// CurrentScan contains metadata about the current scan.
	CurrentScan ScanMetadata `json:"current_scan"`

	// NewGroups contains duplicate groups that are new in the current scan.
	NewGroups []model.GroupFinding `json:"new_groups,omitempty"`

	// ResolvedGroups contains groups that were in the previous scan but not in current.
	ResolvedGroups []model.GroupFinding `json:"resolved_groups,omitempty"`

	// UnchangedCount is the number of groups that remain unchanged.
	UnchangedCount int `json:"unchanged_count"`

	// Trend describes the overall change in duplication.
	Trend Trend `json:"trend"`
}

// ScanMetadata contains metadata about a scan for comparison display.
type ScanMetadata struct {
	// DateScanned is when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// GroupCount is the number of duplicate groups in this scan.
	GroupCount int `json:"group_count"`

	// DuplicateDirCount is the number of directories in any group.
	DuplicateDirCount int `json:"duplicate_dir_count"`

	// LargestGroup is the member count of the biggest group.
	LargestGroup int `json:"largest_group"`

	// TopScore is the highest pair score across all groups.
	TopScore float64 `json:"top_score"`
}

// Trend describes the change in duplication between scans.
type Trend struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// GroupDelta is the change in duplicate group count.
	GroupDelta int `json:"group_delta"`

	// DirDelta is the change in duplicate directory count.
	DirDelta int `json:"dir_delta"`

	// LargestDelta is the change in the largest group's member count.
	LargestDelta int `json:"largest_delta"`
}

// compareReports compares two scan reports and generates a comparison result.
func compareReports(previous, current *model.ScanReport) *ComparisonResult {
	result := &ComparisonResult{
		Roots: current.Roots,
	}

	result.PreviousScan = scanMetadata(previous)
	result.CurrentScan = scanMetadata(current)

	// Build group maps for comparison
	previousGroups := make(map[string]model.GroupFinding)
	currentGroups := make(map[string]model.GroupFinding)

	if previous.Findings != nil {
		for _, g := range previous.Findings.Groups {
			previousGroups[groupKey(g)] = g
		}
	}
	if current.Findings != nil {
		for _, g := range current.Findings.Groups {
			currentGroups[groupKey(g)] = g
		}
	}

	// Find new groups (in current but not in previous)
	for key, group := range currentGroups {
		if _, exists := previousGroups[key]; !exists {
			result.NewGroups = append(result.NewGroups, group)
		}
	}

	// Find resolved groups (in previous but not in current)
	for key, group := range previousGroups {
		if _, exists := currentGroups[key]; !exists {
			result.ResolvedGroups = append(result.ResolvedGroups, group)
		} else {
			result.UnchangedCount++
		}
	}

	// Calculate overall trend
	result.Trend = calculateTrend(result.PreviousScan, result.CurrentScan)

	return result
}

// scanMetadata extracts comparison metadata from a scan report.
func scanMetadata(report *model.ScanReport) ScanMetadata {
	meta := ScanMetadata{DateScanned: report.DateScanned}
	if report.Findings != nil {
		meta.GroupCount = report.Findings.GroupCount
		meta.DuplicateDirCount = report.Findings.DuplicateDirCount
		meta.LargestGroup = report.Findings.LargestGroup
		meta.TopScore = report.Findings.TopScore
	}
	return meta
}

// groupKey generates a unique key for a group for comparison purposes.
// Members are stored sorted, so the joined member list identifies a group
// across scans.
func groupKey(g model.GroupFinding) string {
	return strings.Join(g.Members, groupKeySeparator)
}

// calculateTrend calculates the change in duplication between two scans.
func calculateTrend(previous, current ScanMetadata) Trend {
	trend := Trend{
		GroupDelta:   current.GroupCount - previous.GroupCount,
		DirDelta:     current.DuplicateDirCount - previous.DuplicateDirCount,
		LargestDelta: current.LargestGroup - previous.LargestGroup,
	}

	// Directory count dominates the direction; a large cluster growing
	// matters more than the raw number of groups.
	previousScore := previous.DuplicateDirCount*10 + previous.LargestGroup*5 + previous.GroupCount
	currentScore := current.DuplicateDirCount*10 + current.LargestGroup*5 + current.GroupCount

	if currentScore < previousScore {
		trend.Direction = trendImproved
	} else if currentScore > previousScore {
		trend.Direction = trendWorsened
	} else {
		trend.Direction = trendUnchanged
	}

	return trend
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(result *ComparisonResult) error {
	fmt.Printf("# Scan Comparison: %s\n\n", strings.Join(result.Roots, ", "))

	fmt.Println("## Summary")
	fmt.Printf("\n**Duplication Trend:** %s\n\n", formatTrendDirection(result.Trend.Direction))

	fmt.Println("| Metric | Previous | Current | Change |")
	fmt.Println("|--------|----------|---------|--------|")
	fmt.Printf("| Date | %s | %s | - |\n",
		result.PreviousScan.DateScanned.Format("2006-01-02 15:04"),
		result.CurrentScan.DateScanned.Format("2006-01-02 15:04"))
	fmt.Printf("| Groups | %d | %d | %s |\n",
		result.PreviousScan.GroupCount,
		result.CurrentScan.GroupCount,
		formatDelta(result.Trend.GroupDelta))
	fmt.Printf("| Duplicate Dirs | %d | %d | %s |\n",
		result.PreviousScan.DuplicateDirCount,
		result.CurrentScan.DuplicateDirCount,
		formatDelta(result.Trend.DirDelta))
	fmt.Printf("| Largest Group | %d | %d | %s |\n",
		result.PreviousScan.LargestGroup,
		result.CurrentScan.LargestGroup,
		formatDelta(result.Trend.LargestDelta))

	if len(result.NewGroups) > 0 {
		fmt.Printf("\n## New Groups (%d)\n\n", len(result.NewGroups))
		for _, g := range result.NewGroups {
			fmt.Printf("- **%d directories** (top score %.3f)\n", g.MemberCount, g.TopScore)
			for _, member := range g.Members {
				fmt.Printf("  - `%s`\n", member)
			}
		}
	}

	if len(result.ResolvedGroups) > 0 {
		fmt.Printf("\n## Resolved Groups (%d)\n\n", len(result.ResolvedGroups))
		for _, g := range result.ResolvedGroups {
			fmt.Printf("- ~~%d directories (top score %.3f)~~\n", g.MemberCount, g.TopScore)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d group(s)\n", result.UnchangedCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Scan Comparison: %s\n", strings.Join(result.Roots, ", "))
	fmt.Printf("Duplication Trend: %s\n", formatTrendDirection(result.Trend.Direction))
	fmt.Printf("\nPrevious: %s\n", result.PreviousScan.DateScanned.Format("2006-01-02 15:04:05"))
	fmt.Printf("Current:  %s\n", result.CurrentScan.DateScanned.Format("2006-01-02 15:04:05"))

	// Summary table
	fmt.Println("\nDuplicate Summary:")
	fmt.Printf("  %-16s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 52))
	fmt.Printf("  %-16s  %-10d  %-10d  %-10s\n", "Groups",
		result.PreviousScan.GroupCount, result.CurrentScan.GroupCount,
		formatDelta(result.Trend.GroupDelta))
	fmt.Printf("  %-16s  %-10d  %-10d  %-10s\n", "Duplicate dirs",
		result.PreviousScan.DuplicateDirCount, result.CurrentScan.DuplicateDirCount,
		formatDelta(result.Trend.DirDelta))
	fmt.Printf("  %-16s  %-10d  %-10d  %-10s\n", "Largest group",
		result.PreviousScan.LargestGroup, result.CurrentScan.LargestGroup,
		formatDelta(result.Trend.LargestDelta))

	// New groups
	if len(result.NewGroups) > 0 {
		fmt.Printf("\nNew Groups (%d):\n", len(result.NewGroups))
		for _, g := range result.NewGroups {
			fmt.Printf("  [+] %d directories (top score %.3f)\n", g.MemberCount, g.TopScore)
			for _, member := range g.Members {
				fmt.Printf("      %s\n", member)
			}
		}
	}

	// Resolved groups
	if len(result.ResolvedGroups) > 0 {
		fmt.Printf("\nResolved Groups (%d):\n", len(result.ResolvedGroups))
		for _, g := range result.ResolvedGroups {
			fmt.Printf("  [-] %d directories (top score %.3f)\n", g.MemberCount, g.TopScore)
		}
	}

	// Unchanged count
	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d group(s)\n", result.UnchangedCount)
	}

	return nil
}

// formatTrendDirection formats the trend direction for display.
func formatTrendDirection(direction string) string {
	switch direction {
	case trendImproved:
		return "IMPROVED (duplication decreased)"
	case trendWorsened:
		return "WORSENED (duplication increased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
