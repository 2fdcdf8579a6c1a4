package model

import (
	"errors"
	"fmt"
)

// ErrMalformedEntry is returned when a DirectoryEntry carries values that
// cannot describe a real directory (negative size, nil path, duplicate
// listing state). Callers should log and skip the offending entry rather
// than abort the run; partial results remain valuable.
var ErrMalformedEntry = errors.New("malformed directory entry")

// DirectoryEntry is the raw listing of a single directory as supplied by
// the filesystem walker. It carries only immediate children; nesting is
// expressed by one entry per directory, each with its own depth.
//
// Design decision: The entry is a plain data struct with no methods that
// touch the filesystem. Everything downstream of the walker is a pure
// computation over these values, which keeps the similarity engine fully
// deterministic and trivially testable.
type DirectoryEntry struct {
	// Path is the absolute path of the directory. It is the unique key
	// for the directory throughout a scan run.
	Path string `json:"path"`

	// Files lists the names of the immediate child files.
	Files []string `json:"files"`

	// Subdirs lists the names of the immediate child directories.
	Subdirs []string `json:"subdirs"`

	// Depth is the nesting level relative to the scan root (root = 0).
	Depth int `json:"depth"`

	// TotalSize is the summed size in bytes of the immediate child files.
	// Only meaningful when HasSize is true.
	TotalSize int64 `json:"total_size_bytes,omitempty"`

	// HasSize indicates whether size collection was enabled for this entry.
	HasSize bool `json:"has_size"`
}

// Validate checks that the entry can describe a real directory.
// It returns an error wrapping ErrMalformedEntry on the first violation
// so callers can use errors.Is for programmatic handling.
func (e DirectoryEntry) Validate() error {
	if e.Path == "" {
		return fmt.Errorf("%w: empty path", ErrMalformedEntry)
	}
	if e.Depth < 0 {
		return fmt.Errorf("%w: negative depth %d for %s", ErrMalformedEntry, e.Depth, e.Path)
	}
	if e.HasSize && e.TotalSize < 0 {
		return fmt.Errorf("%w: negative total size %d for %s", ErrMalformedEntry, e.TotalSize, e.Path)
	}
	for _, name := range e.Files {
		if name == "" {
			return fmt.Errorf("%w: empty file name in %s", ErrMalformedEntry, e.Path)
		}
	}
	for _, name := range e.Subdirs {
		if name == "" {
			return fmt.Errorf("%w: empty subdirectory name in %s", ErrMalformedEntry, e.Path)
		}
	}
	return nil
}
