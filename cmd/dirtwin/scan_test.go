package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dirtwin/dirtwin/internal/config"
)

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scan <root> [root...]" {
			t.Errorf("expected use 'scan <root> [root...]', got %q", cmd.Use)
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has threshold flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("threshold")
		if flag == nil {
			t.Fatal("expected threshold flag")
		}
		if flag.Shorthand != "t" {
			t.Errorf("expected shorthand 't', got %q", flag.Shorthand)
		}
	})

	t.Run("has workers flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("workers")
		if flag == nil {
			t.Fatal("expected workers flag")
		}
		if flag.Shorthand != "w" {
			t.Errorf("expected shorthand 'w', got %q", flag.Shorthand)
		}
	})

	t.Run("has min-files flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("min-files") == nil {
			t.Error("expected min-files flag")
		}
	})

	t.Run("has include-empty flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("include-empty") == nil {
			t.Error("expected include-empty flag")
		}
	})

	t.Run("has max-depth flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-depth")
		if flag == nil {
			t.Fatal("expected max-depth flag")
		}
		if flag.Shorthand != "d" {
			t.Errorf("expected shorthand 'd', got %q", flag.Shorthand)
		}
	})

	t.Run("has exclude flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("exclude")
		if flag == nil {
			t.Fatal("expected exclude flag")
		}
		if flag.Shorthand != "x" {
			t.Errorf("expected shorthand 'x', got %q", flag.Shorthand)
		}
	})

	t.Run("has no-sizes flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("no-sizes") == nil {
			t.Error("expected no-sizes flag")
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})

	t.Run("has report format flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"json", "markdown", "output"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("does not have db-dir flag (uses XDG)", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("db-dir") != nil {
			t.Error("db-dir flag should not exist (always uses XDG data directory)")
		}
	})
}

// TestGetVerboseFlag tests the verbose flag retrieval.
func TestGetVerboseFlag(t *testing.T) {
	t.Run("returns false when flag not set", func(t *testing.T) {
		cmd := NewScanCmd()
		if getVerboseFlag(cmd) {
			t.Error("expected false when flag not set")
		}
	})

	t.Run("returns value from parent verbose flag", func(t *testing.T) {
		root := NewRootCmd()
		_ = root.PersistentFlags().Set("verbose", "true")

		scanCmd, _, err := root.Find([]string{"scan"})
		if err != nil {
			t.Fatalf("failed to find scan command: %v", err)
		}

		if !getVerboseFlag(scanCmd) {
			t.Error("expected true from parent verbose flag")
		}
	})
}

// TestBuildConfig tests configuration building from flags.
func TestBuildConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewScanCmd()
		cfg, err := buildConfig(cmd, []string{"/data"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Roots) != 1 || cfg.Roots[0] != "/data" {
			t.Errorf("expected roots [/data], got %v", cfg.Roots)
		}
		if cfg.Threshold != config.DefaultThreshold {
			t.Errorf("expected default threshold, got %v", cfg.Threshold)
		}
		if !cfg.IncludeSizes {
			t.Error("expected IncludeSizes to default to true")
		}
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir == "" {
			t.Error("expected a database directory")
		}
	})

	t.Run("builds config with custom threshold", func(t *testing.T) {
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("threshold", "0.95")
		cfg, err := buildConfig(cmd, []string{"/data"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Threshold != 0.95 {
			t.Errorf("expected threshold 0.95, got %v", cfg.Threshold)
		}
	})

	t.Run("no-sizes flag disables size collection", func(t *testing.T) {
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("no-sizes", "true")
		cfg, err := buildConfig(cmd, []string{"/data"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.IncludeSizes {
			t.Error("expected IncludeSizes to be false")
		}
	})

	t.Run("exclude flag collects patterns", func(t *testing.T) {
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("exclude", ".git")
		_ = cmd.Flags().Set("exclude", "node_modules")
		cfg, err := buildConfig(cmd, []string{"/data"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.ExcludePatterns) != 2 {
			t.Fatalf("expected 2 exclude patterns, got %v", cfg.ExcludePatterns)
		}
		if cfg.ExcludePatterns[0] != ".git" || cfg.ExcludePatterns[1] != "node_modules" {
			t.Errorf("unexpected patterns: %v", cfg.ExcludePatterns)
		}
	})

	t.Run("builds config with multiple roots", func(t *testing.T) {
		cmd := NewScanCmd()
		cfg, err := buildConfig(cmd, []string{"/a", "/b", "/c"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Roots) != 3 {
			t.Errorf("expected 3 roots, got %d", len(cfg.Roots))
		}
	})

	t.Run("loads per-root profiles from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".dirtwin")

		content := []byte(`
threshold: 0.9
defaults:
  excludePatterns:
    - .git
roots:
  /data/photos:
    minFileCount: 5
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScanCmd()
		_ = cmd.Flags().Set("config", configPath)
		cfg, err := buildConfig(cmd, []string{"/data/photos"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Profiles == nil {
			t.Fatal("expected profiles to be loaded")
		}
		if cfg.Profiles.Roots["/data/photos"].MinFileCount != 5 {
			t.Errorf("expected minFileCount 5, got %d", cfg.Profiles.Roots["/data/photos"].MinFileCount)
		}
		// Threshold flag was not set, so the file value applies.
		if cfg.Threshold != 0.9 {
			t.Errorf("expected file threshold 0.9, got %v", cfg.Threshold)
		}
	})

	t.Run("explicit threshold flag wins over config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".dirtwin")

		if err := os.WriteFile(configPath, []byte("threshold: 0.9\n"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScanCmd()
		_ = cmd.Flags().Set("config", configPath)
		_ = cmd.Flags().Set("threshold", "0.95")
		cfg, err := buildConfig(cmd, []string{"/data"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Threshold != 0.95 {
			t.Errorf("expected flag threshold 0.95, got %v", cfg.Threshold)
		}
	})

	t.Run("config file weights replace defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".dirtwin")

		content := []byte(`
weights:
  fileCount: 0.3
  subdirCount: 0.2
  extension: 0.2
  subdirName: 0.2
  depth: 0.1
  size: 0.0
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScanCmd()
		_ = cmd.Flags().Set("config", configPath)
		cfg, err := buildConfig(cmd, []string{"/data"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Weights.FileCount != 0.3 {
			t.Errorf("expected file-count weight 0.3, got %v", cfg.Weights.FileCount)
		}
	})

	t.Run("returns error for missing explicit config file", func(t *testing.T) {
		cmd := NewScanCmd()
		missing := filepath.Join(t.TempDir(), "nope.yaml")
		_ = cmd.Flags().Set("config", missing)

		_, err := buildConfig(cmd, []string{"/data"})
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
		if !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("returns error for invalid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".dirtwin")

		if err := os.WriteFile(configPath, []byte("{invalid yaml"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScanCmd()
		_ = cmd.Flags().Set("config", configPath)

		if _, err := buildConfig(cmd, []string{"/data"}); err == nil {
			t.Fatal("expected error for invalid config file")
		}
	})
}
