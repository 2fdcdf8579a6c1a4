package walker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dirtwin/dirtwin/internal/model"
	"github.com/karrick/godirwalk"
)

// scratchSize is the reusable buffer size for godirwalk directory reads.
const scratchSize = 64 * 1024

// Walker traverses a root directory tree and emits one DirectoryEntry per
// directory. Symlinked directories are never followed (cycles and
// double-counting), and directories that fail to list are logged and
// skipped rather than failing the walk.
type Walker struct {
	// maxDepth limits traversal depth relative to the root (root = 0).
	// Zero means unlimited.
	maxDepth int

	// excludePatterns are glob patterns (filepath.Match syntax) matched
	// against the directory base name and the root-relative path.
	// Matching directories are skipped along with their entire subtree.
	excludePatterns []string

	// includeSizes enables per-file stat calls to sum immediate file sizes.
	includeSizes bool

	// logger is used for structured logging during the walk.
	logger *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithMaxDepth limits traversal depth. Zero (default) means unlimited.
func WithMaxDepth(depth int) Option {
	return func(w *Walker) {
		w.maxDepth = depth
	}
}

// WithExcludePatterns sets glob patterns for directories to skip.
// Patterns are matched against the base name and the root-relative path
// using filepath.Match syntax (no ** recursion).
func WithExcludePatterns(patterns []string) Option {
	return func(w *Walker) {
		w.excludePatterns = patterns
	}
}

// WithSizes enables or disables size collection. When disabled the walker
// never stats individual files, which is noticeably faster on large trees.
func WithSizes(enabled bool) Option {
	return func(w *Walker) {
		w.includeSizes = enabled
	}
}

// WithLogger sets a custom logger for the walker.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// New creates a Walker with the given options.
func New(opts ...Option) *Walker {
	w := &Walker{
		includeSizes: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// pending is a directory queued for listing.
type pending struct {
	path  string
	depth int
}

// Walk traverses root and returns one entry per directory, including the
// root itself. Entries come back in deterministic order: parents before
// children, siblings sorted by name.
func (w *Walker) Walk(ctx context.Context, root string) ([]model.DirectoryEntry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to access root %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", absRoot)
	}

	scratch := make([]byte, scratchSize)
	var entries []model.DirectoryEntry

	stack := []pending{{path: absRoot, depth: 0}}
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return entries, ctx.Err()
		default:
		}

		// Pop the last element; children are pushed in reverse so the
		// traversal stays in name order.
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entry, subdirs, err := w.listDirectory(p, scratch)
		if err != nil {
			w.logger.Warn("skipping unreadable directory", "path", p.path, "error", err)
			continue
		}
		entries = append(entries, entry)

		if w.maxDepth > 0 && p.depth+1 > w.maxDepth {
			continue
		}
		for i := len(subdirs) - 1; i >= 0; i-- {
			name := subdirs[i]
			child := filepath.Join(p.path, name)
			if w.excluded(name, child, absRoot) {
				w.logger.Debug("excluded directory", "path", child)
				continue
			}
			stack = append(stack, pending{path: child, depth: p.depth + 1})
		}
	}

	w.logger.Debug("walk complete", "root", absRoot, "directories", len(entries))
	return entries, nil
}

// listDirectory reads one directory and builds its entry. It returns the
// subdirectory names separately so the caller can queue them.
func (w *Walker) listDirectory(p pending, scratch []byte) (model.DirectoryEntry, []string, error) {
	dirents, err := godirwalk.ReadDirents(p.path, scratch)
	if err != nil {
		return model.DirectoryEntry{}, nil, err
	}
	sort.Sort(dirents)

	entry := model.DirectoryEntry{
		Path:    p.path,
		Depth:   p.depth,
		HasSize: w.includeSizes,
	}
	var subdirs []string

	for _, de := range dirents {
		switch {
		case de.IsSymlink():
			// Never followed: a symlinked directory can introduce cycles
			// and a symlinked file would double-count content.
			continue
		case de.IsDir():
			entry.Subdirs = append(entry.Subdirs, de.Name())
			subdirs = append(subdirs, de.Name())
		case de.IsRegular():
			entry.Files = append(entry.Files, de.Name())
			if w.includeSizes {
				if info, err := os.Lstat(filepath.Join(p.path, de.Name())); err == nil {
					entry.TotalSize += info.Size()
				}
			}
		default:
			// Sockets, FIFOs, devices: not part of a directory's shape.
		}
	}

	return entry, subdirs, nil
}

// excluded reports whether a directory matches any exclusion pattern.
// Patterns are tried against the base name first, then against the
// root-relative path, mirroring how URL filters match path then filename.
func (w *Walker) excluded(name, fullPath, root string) bool {
	for _, pattern := range w.excludePatterns {
		// Use filepath.Match for standard glob matching.
		// Note: filepath.Match doesn't support ** for recursive matching,
		// but base-name matching makes "node_modules" style patterns
		// apply at any depth anyway.
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
		if rel, err := filepath.Rel(root, fullPath); err == nil {
			if matched, err := filepath.Match(pattern, rel); err == nil && matched {
				return true
			}
		}
	}
	return false
}
