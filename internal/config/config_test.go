package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/dirtwin/dirtwin/internal/similarity"
)

// TestNewConfig tests default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.Threshold != DefaultThreshold {
		t.Errorf("expected threshold %v, got %v", DefaultThreshold, cfg.Threshold)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("expected workers %v, got %v", DefaultWorkers, cfg.Workers)
	}
	if !cfg.IncludeSizes {
		t.Error("expected size collection enabled by default")
	}
	if cfg.IncludeEmpty {
		t.Error("expected empty directories excluded by default")
	}
	if err := cfg.Weights.Validate(); err != nil {
		t.Errorf("default weights invalid: %v", err)
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Roots = []string{"/data"}
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()

		if err := valid().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing roots", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if !errors.Is(cfg.Validate(), ErrNoRoot) {
			t.Error("expected ErrNoRoot")
		}
	})

	t.Run("threshold out of range", func(t *testing.T) {
		t.Parallel()

		for _, threshold := range []float64{0, -0.1, 1.1} {
			cfg := valid()
			cfg.Threshold = threshold
			if !errors.Is(cfg.Validate(), similarity.ErrInvalidThreshold) {
				t.Errorf("expected ErrInvalidThreshold for %v", threshold)
			}
		}
	})

	t.Run("invalid weights", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Weights.Extension = 0.9
		if !errors.Is(cfg.Validate(), similarity.ErrInvalidWeights) {
			t.Error("expected ErrInvalidWeights")
		}
	})

	t.Run("non-positive workers", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Workers = 0
		if !errors.Is(cfg.Validate(), ErrInvalidWorkers) {
			t.Error("expected ErrInvalidWorkers")
		}
	})

	t.Run("negative min file count", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.MinFileCount = -1
		if !errors.Is(cfg.Validate(), ErrInvalidMinFileCount) {
			t.Error("expected ErrInvalidMinFileCount")
		}
	})

	t.Run("negative max depth", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.MaxDepth = -2
		if !errors.Is(cfg.Validate(), ErrInvalidMaxDepth) {
			t.Error("expected ErrInvalidMaxDepth")
		}
	})

	t.Run("conflicting report formats", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.JSONReport = true
		cfg.MarkdownReport = true
		if !errors.Is(cfg.Validate(), ErrConflictingReportFormats) {
			t.Error("expected ErrConflictingReportFormats")
		}
	})

	t.Run("malformed exclude pattern", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.ExcludePatterns = []string{"[unclosed"}
		if !errors.Is(cfg.Validate(), ErrInvalidExcludePattern) {
			t.Error("expected ErrInvalidExcludePattern")
		}
	})

	t.Run("valid exclude patterns pass", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.ExcludePatterns = []string{".git", "node_*", "build?"}
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestXDGDirs tests XDG path construction.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if !strings.HasSuffix(XDGDataDir(), AppName) {
		t.Errorf("expected data dir to end in %s, got %s", AppName, XDGDataDir())
	}
	if !strings.HasSuffix(XDGConfigDir(), AppName) {
		t.Errorf("expected config dir to end in %s, got %s", AppName, XDGConfigDir())
	}
}
