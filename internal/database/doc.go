// Package database provides SQLite-based persistence of scan runs.
//
// Every completed scan is stored as a row keyed by its root set, carrying
// the full report as JSON plus a small summary for cheap history listings.
// The compare command reads this history to diff consecutive runs.
//
// Design decision: We use a single database file in the XDG data
// directory rather than per-root files. This keeps history queries and
// the list-roots operation simple and makes backup a single-file affair.
package database
