package config

import "github.com/dirtwin/dirtwin/internal/similarity"

// RootProfile holds per-root configuration for a single scan root.
// This allows customizing walk behavior per directory tree, e.g. heavier
// exclusions for a source checkout than for a photo archive.
type RootProfile struct {
	// ExcludePatterns are glob patterns for directories to skip under
	// this root.
	ExcludePatterns []string `yaml:"excludePatterns,omitempty"`

	// MinFileCount overrides the global minimum file count for this root.
	// Zero means use the global value.
	MinFileCount int `yaml:"minFileCount,omitempty"`

	// MaxDepth overrides the global traversal depth limit for this root.
	// Zero means use the global value.
	MaxDepth int `yaml:"maxDepth,omitempty"`
}

// File represents the structure of the .dirtwin configuration file.
type File struct {
	// Threshold overrides the similarity threshold when set (non-zero).
	Threshold float64 `yaml:"threshold,omitempty"`

	// Weights overrides the sub-metric weights when present.
	// The override must still pass validation (sum to 1.0).
	Weights *similarity.Weights `yaml:"weights,omitempty"`

	// Roots maps scan root paths to their profiles.
	Roots map[string]RootProfile `yaml:"roots,omitempty"`

	// Defaults contains the profile applied to every root unless
	// overridden in a root-specific profile.
	Defaults RootProfile `yaml:"defaults,omitempty"`
}

// ProfileFor returns the profile for a specific root, merging the
// root-specific profile over the defaults.
func (f *File) ProfileFor(root string) RootProfile {
	result := f.Defaults

	if profile, ok := f.Roots[root]; ok {
		if len(profile.ExcludePatterns) > 0 {
			result.ExcludePatterns = profile.ExcludePatterns
		}
		if profile.MinFileCount > 0 {
			result.MinFileCount = profile.MinFileCount
		}
		if profile.MaxDepth > 0 {
			result.MaxDepth = profile.MaxDepth
		}
	}

	return result
}
