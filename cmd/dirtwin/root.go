package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for dirtwin.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dirtwin",
		Short: "Find directories with duplicate internal structure",
		Long: `dirtwin finds directories that share the same internal structure.

It walks one or more directory trees, fingerprints every directory by its
immediate contents (file count, subdirectory count, file extensions,
subdirectory names, and depth), and groups directories whose structures
score above a similarity threshold. Typical uses are finding duplicated
photo dumps, repeated project scaffolds, and redundant backup copies.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
