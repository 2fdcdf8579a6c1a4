package model

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/unicode/norm"
)

// Canonical string delimiters for the structure hash.
// Unit separator between items of one field, record separator between
// fields. Neither can appear in a file name on common filesystems, so the
// canonical string is unambiguous.
const (
	hashItemSep  = "\x1f"
	hashFieldSep = "\x1e"
)

// StructureDescriptor is the normalized structural fingerprint of a single
// directory. Two descriptors are compared without ever reading file
// contents; only counts, names, extensions, and depth participate.
//
// Descriptors are immutable once built: they are created once per scanned
// directory by NewStructureDescriptor and never mutated afterwards. The
// set-typed fields exist so pairwise comparison is O(1) amortized per
// lookup; they are excluded from JSON because Extensions and the counts
// already carry everything a report needs.
type StructureDescriptor struct {
	// Path is the absolute path of the directory, the unique key.
	Path string `json:"path"`

	// FileCount is the number of immediate child files.
	FileCount int `json:"file_count"`

	// SubdirCount is the number of immediate child directories.
	SubdirCount int `json:"subdir_count"`

	// FileNames is the set of immediate child file names (NFC-normalized).
	FileNames map[string]struct{} `json:"-"`

	// Extensions is the multiset of file extensions: lowercase, without
	// the leading dot, empty string for files with no extension. The sum
	// of the values always equals FileCount.
	Extensions map[string]int `json:"extensions"`

	// SubdirNames is the set of immediate subdirectory names (NFC-normalized).
	SubdirNames map[string]struct{} `json:"-"`

	// Depth is the nesting level relative to the scan root.
	Depth int `json:"depth"`

	// TotalSize is the summed size of the immediate child files in bytes.
	// Only meaningful when HasSize is true.
	TotalSize int64 `json:"total_size_bytes,omitempty"`

	// HasSize indicates whether size information was collected.
	HasSize bool `json:"has_size"`

	// StructureHash is a deterministic 64-bit digest (hex encoded) of
	// (FileCount, SubdirCount, Depth, sorted extension keys, sorted
	// subdirectory names). Identical hashes mean structurally identical
	// directories under the hash's precision, enabling the exact-match
	// fast path in the scorer.
	StructureHash string `json:"structure_hash"`
}

// NewStructureDescriptor builds an immutable StructureDescriptor from a
// raw directory entry. It is a pure function of its input: no filesystem
// access, no hidden state, so identical entries always produce identical
// descriptors (and identical structure hashes) across runs and platforms.
//
// File and subdirectory names are normalized to Unicode NFC first. macOS
// stores names in NFD while Linux typically stores NFC; without the
// normalization the same tree copied across systems would fingerprint
// differently.
func NewStructureDescriptor(entry DirectoryEntry) (*StructureDescriptor, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	d := &StructureDescriptor{
		Path:        entry.Path,
		FileCount:   len(entry.Files),
		SubdirCount: len(entry.Subdirs),
		FileNames:   make(map[string]struct{}, len(entry.Files)),
		Extensions:  make(map[string]int),
		SubdirNames: make(map[string]struct{}, len(entry.Subdirs)),
		Depth:       entry.Depth,
		TotalSize:   entry.TotalSize,
		HasSize:     entry.HasSize,
	}

	for _, name := range entry.Files {
		name = norm.NFC.String(name)
		d.FileNames[name] = struct{}{}
		d.Extensions[extensionOf(name)]++
	}
	for _, name := range entry.Subdirs {
		d.SubdirNames[norm.NFC.String(name)] = struct{}{}
	}

	d.StructureHash = computeStructureHash(d)
	return d, nil
}

// extensionOf extracts the extension from a file name: the text after the
// last dot, lowercased, without the dot. Files with no extension map to
// the empty string. A leading dot alone does not count as an extension
// separator, so hidden files like ".bashrc" are treated as extensionless,
// and a trailing dot ("archive.") also yields the empty string.
func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// computeStructureHash digests the structural fields into a stable 64-bit
// xxHash. The canonical string is built from sorted, delimited fields so
// the digest is independent of map iteration order and stable across runs
// and platforms.
func computeStructureHash(d *StructureDescriptor) string {
	extKeys := make([]string, 0, len(d.Extensions))
	for k := range d.Extensions {
		extKeys = append(extKeys, k)
	}
	sort.Strings(extKeys)

	subdirs := make([]string, 0, len(d.SubdirNames))
	for k := range d.SubdirNames {
		subdirs = append(subdirs, k)
	}
	sort.Strings(subdirs)

	var sb strings.Builder
	sb.WriteString(strconv.Itoa(d.FileCount))
	sb.WriteString(hashFieldSep)
	sb.WriteString(strconv.Itoa(d.SubdirCount))
	sb.WriteString(hashFieldSep)
	sb.WriteString(strconv.Itoa(d.Depth))
	sb.WriteString(hashFieldSep)
	sb.WriteString(strings.Join(extKeys, hashItemSep))
	sb.WriteString(hashFieldSep)
	sb.WriteString(strings.Join(subdirs, hashItemSep))

	return strconv.FormatUint(xxhash.Sum64String(sb.String()), 16)
}

// IsEmpty reports whether the directory has no files and no subdirectories.
// Empty directories score 1.0 against each other under every sub-metric
// definition, so callers typically filter them out before comparison
// unless the include-empty policy is enabled.
func (d *StructureDescriptor) IsEmpty() bool {
	return d.FileCount == 0 && d.SubdirCount == 0
}
