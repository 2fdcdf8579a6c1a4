// Package log provides logging for dirtwin with automatic masking of the
// user's home directory, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic rewriting of home-directory prefixes in path attributes
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Privacy
//
// Scan output frequently contains filesystem paths. The MaskHandler rewrites
// any string attribute whose value starts with the current user's home
// directory so that reports and logs can be shared without exposing the
// local account name:
//
//	/home/alice/projects/src -> ~/projects/src
//
// Masking applies even in verbose mode.
//
// # Usage
//
//	// Create a masked logger
//	logger := log.NewMaskedLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("scanning root",
//	    "path", "/home/alice/projects",  // Logged as "~/projects"
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
