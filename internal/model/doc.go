// Package model defines the core data structures used throughout dirtwin.
//
// This package contains the following main types:
//   - DirectoryEntry: Raw directory listing supplied by the walker
//   - StructureDescriptor: Normalized structural fingerprint of a directory
//   - SimilarityResult: Pairwise similarity score with per-metric breakdown
//   - DuplicateGroup: Transitively-merged cluster of similar directories
//   - ScanReport: The main scan result structure
//   - Findings: Ordered, presentation-ready view of the groups
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (walker, similarity, report, database) need
// to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
