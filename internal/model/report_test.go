package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// TestNewScanReport tests report initialization.
func TestNewScanReport(t *testing.T) {
	t.Parallel()

	roots := []string{"/a", "/b"}
	report := NewScanReport(roots)

	if len(report.Roots) != 2 {
		t.Errorf("expected 2 roots, got %d", len(report.Roots))
	}
	if report.DateScanned.IsZero() {
		t.Error("expected DateScanned to be set")
	}
	if time.Since(report.DateScanned) > time.Minute {
		t.Error("expected DateScanned to be recent")
	}
}

// TestScanReportSerialization tests that transient fields stay out of JSON.
func TestScanReportSerialization(t *testing.T) {
	t.Parallel()

	report := NewScanReport([]string{"/data"})
	report.Entries = []DirectoryEntry{{Path: "/data/secret", Depth: 1}}
	report.Descriptors = []*StructureDescriptor{{Path: "/data/secret"}}
	report.DirectoriesScanned = 1
	report.Threshold = 0.8

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(string(data), "secret") {
		t.Error("expected transient entries and descriptors to be excluded from JSON")
	}
	if !strings.Contains(string(data), `"threshold":0.8`) {
		t.Errorf("expected threshold in JSON, got %s", data)
	}
}

// TestFindingsHasGroups tests the group presence check.
func TestFindingsHasGroups(t *testing.T) {
	t.Parallel()

	t.Run("no groups", func(t *testing.T) {
		t.Parallel()

		f := &Findings{}
		if f.HasGroups() {
			t.Error("expected HasGroups to be false")
		}
	})

	t.Run("with groups", func(t *testing.T) {
		t.Parallel()

		f := &Findings{GroupCount: 2}
		if !f.HasGroups() {
			t.Error("expected HasGroups to be true")
		}
	})
}

// TestDuplicateGroupSize tests the member count accessor.
func TestDuplicateGroupSize(t *testing.T) {
	t.Parallel()

	g := DuplicateGroup{Members: []string{"/a", "/b", "/c"}}
	if g.Size() != 3 {
		t.Errorf("expected size 3, got %d", g.Size())
	}
}
