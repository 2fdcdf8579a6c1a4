package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dirtwin/dirtwin/internal/config"
	"github.com/dirtwin/dirtwin/internal/database"
	"github.com/dirtwin/dirtwin/internal/log"
	"github.com/dirtwin/dirtwin/internal/model"
	"github.com/dirtwin/dirtwin/internal/pipeline"
	"github.com/dirtwin/dirtwin/internal/report"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <root> [root...]",
		Short: "Scan directory trees for duplicate structures",
		Long: `Scan walks one or more directory trees and reports groups of directories
whose internal structure is similar.

Each directory is fingerprinted by its immediate contents: file count,
subdirectory count, file extension histogram, subdirectory names, and
depth below the scan root. Directories scoring at or above the threshold
against each other are merged into duplicate groups.

Examples:
  # Scan the current project tree
  dirtwin scan .

  # Scan two trees together with a stricter threshold
  dirtwin scan --threshold 0.9 ~/photos ~/backup/photos

  # Skip VCS and build directories
  dirtwin scan --exclude .git --exclude node_modules ~/src

  # Only consider directories with at least 3 files
  dirtwin scan --min-files 3 ~/downloads

  # Output JSON report to a file
  dirtwin scan --json -o report.json ~/archive

Configuration file (.dirtwin) example:
  threshold: 0.85
  defaults:
    excludePatterns:
      - .git
  roots:
    /home/user/photos:
      minFileCount: 5`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Scoring flags
	cmd.Flags().Float64P("threshold", "t", config.DefaultThreshold,
		"Similarity threshold in (0,1]; pairs scoring below it are discarded")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent scoring goroutines")

	// Walk behavior flags
	cmd.Flags().Int("min-files", config.DefaultMinFileCount,
		"Exclude directories with fewer immediate files from comparison")
	cmd.Flags().Bool("include-empty", false,
		"Keep completely empty directories in the comparison")
	cmd.Flags().IntP("max-depth", "d", config.DefaultMaxDepth,
		"Maximum traversal depth relative to each root (0 = unlimited)")
	cmd.Flags().StringSliceP("exclude", "x", nil,
		"Glob pattern for directories to skip (repeatable)")
	cmd.Flags().Bool("no-sizes", false,
		"Skip collecting file sizes during the walk")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .dirtwin in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with home-directory masking
	verbose := getVerboseFlag(cmd)
	cfg.Verbose = verbose
	logger := log.NewMaskedLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Threshold, err = cmd.Flags().GetFloat64("threshold")
	if err != nil {
		return nil, err
	}

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.MinFileCount, err = cmd.Flags().GetInt("min-files")
	if err != nil {
		return nil, err
	}

	cfg.IncludeEmpty, err = cmd.Flags().GetBool("include-empty")
	if err != nil {
		return nil, err
	}

	cfg.MaxDepth, err = cmd.Flags().GetInt("max-depth")
	if err != nil {
		return nil, err
	}

	cfg.ExcludePatterns, err = cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return nil, err
	}

	noSizes, err := cmd.Flags().GetBool("no-sizes")
	if err != nil {
		return nil, err
	}
	cfg.IncludeSizes = !noSizes

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-root profiles from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Profiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		// File-level threshold and weights apply unless the flag was
		// set explicitly on the command line.
		if cfg.Profiles.Threshold > 0 && !cmd.Flags().Changed("threshold") {
			cfg.Threshold = cfg.Profiles.Threshold
		}
		if cfg.Profiles.Weights != nil {
			cfg.Weights = *cfg.Profiles.Weights
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.Profiles = &config.File{
			Roots: make(map[string]config.RootProfile),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Always save to database using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Get positional arguments (scan roots)
	cfg.Roots = args

	return cfg, nil
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"roots", cfg.Roots,
		"threshold", cfg.Threshold,
		"workers", cfg.Workers,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.ScanDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	p, err := pipeline.DefaultPipeline(cfg, logger,
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(false),
	)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	scanReport := model.NewScanReport(cfg.Roots)

	fmt.Fprintf(os.Stderr, "Scanning %d root(s)...\n", len(cfg.Roots))
	startTime := time.Now()

	// Execute the pipeline
	if err := p.Execute(ctx, scanReport); err != nil {
		logger.Error("scan failed", "roots", cfg.Roots, "error", err)
		return fmt.Errorf("scan failed: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Fprintf(os.Stderr, "Scan completed in %s\n\n", elapsed.Round(time.Millisecond))

	// Generate and output report
	if err := outputReport(cfg, scanReport); err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	// Save to database if enabled
	if err := saveScanReport(ctx, db, scanReport, logger); err != nil {
		logger.Error("failed to save scan report", "error", err)
	}

	return nil
}

// outputReport outputs the scan report in the requested format.
func outputReport(cfg *config.Config, scanReport *model.ScanReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports reveal local directory layouts, keep them owner-readable
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output)
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output,
			report.WithVerboseOutput(cfg.Verbose),
			report.WithPairDetails(cfg.Verbose),
		)
	}

	_, err := writer.Write(scanReport)
	return err
}

// saveScanReport saves the scan report to the database if enabled.
// If db is nil, this function is a no-op.
func saveScanReport(ctx context.Context, db *database.ScanDB, scanReport *model.ScanReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if err := db.SaveScanReport(ctx, scanReport); err != nil {
		return fmt.Errorf("failed to save scan report: %w", err)
	}

	logger.Info("scan report saved to database", "roots", scanReport.Roots)
	return nil
}
