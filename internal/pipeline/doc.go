// Package pipeline orchestrates a scan as an ordered sequence of steps:
// collect directory entries, fingerprint them, score and group the pairs,
// and assemble the ordered findings.
//
// Each step implements the Step interface and mutates the shared
// ScanReport. The pipeline handles cancellation between steps, structured
// logging, and the continue-on-error policy; the steps themselves stay
// free of orchestration concerns.
package pipeline
