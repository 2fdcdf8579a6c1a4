// Package similarity implements the duplicate directory-structure engine:
// weighted pairwise scoring of structure descriptors, threshold-based
// grouping with transitive merging, and presentation ordering.
//
// The package is pure computation. No I/O happens here; descriptors arrive
// from the walker/fingerprint stages and results leave as model values for
// the report writers. Every comparison is an independent pure function, so
// the all-pairs pass can run on a bounded worker pool with a sequential
// merge phase afterwards, producing output identical to the sequential
// reference algorithm.
package similarity
