// Package walker provides the filesystem side of a scan: it traverses root
// directories and emits one raw DirectoryEntry per directory found, plus
// the caller-policy filters applied to descriptors before comparison.
//
// All filesystem I/O for a scan happens here. The similarity engine never
// touches the filesystem; it consumes the entries this package produces.
//
// Design decision: The walker lists each directory itself (via godirwalk's
// low-level ReadDirents) instead of using a callback-based recursive walk,
// because the unit of work is the directory, not the file: every directory
// needs its complete immediate listing in one piece to be fingerprinted.
package walker
