package model

import (
	"errors"
	"testing"
)

// TestDirectoryEntryValidate tests entry validation rules.
func TestDirectoryEntryValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entry   DirectoryEntry
		wantErr bool
	}{
		{
			name:    "valid entry",
			entry:   DirectoryEntry{Path: "/a", Files: []string{"x.txt"}, Subdirs: []string{"b"}, Depth: 1},
			wantErr: false,
		},
		{
			name:    "valid empty directory",
			entry:   DirectoryEntry{Path: "/a", Depth: 0},
			wantErr: false,
		},
		{
			name:    "empty path",
			entry:   DirectoryEntry{Path: "", Depth: 0},
			wantErr: true,
		},
		{
			name:    "negative depth",
			entry:   DirectoryEntry{Path: "/a", Depth: -1},
			wantErr: true,
		},
		{
			name:    "negative size with size collection enabled",
			entry:   DirectoryEntry{Path: "/a", Depth: 0, HasSize: true, TotalSize: -5},
			wantErr: true,
		},
		{
			name:    "negative size ignored without size collection",
			entry:   DirectoryEntry{Path: "/a", Depth: 0, HasSize: false, TotalSize: -5},
			wantErr: false,
		},
		{
			name:    "empty file name",
			entry:   DirectoryEntry{Path: "/a", Files: []string{"ok.txt", ""}, Depth: 0},
			wantErr: true,
		},
		{
			name:    "empty subdirectory name",
			entry:   DirectoryEntry{Path: "/a", Subdirs: []string{""}, Depth: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.entry.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedEntry) {
					t.Errorf("expected ErrMalformedEntry, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
