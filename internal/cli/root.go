// Package cli wires dxcss's cobra subcommands, grounded on
// ecoker-launchpad/internal/cli's root.go/command-per-file layout.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "dxcss",
	Short:   "Incremental utility-class CSS generator",
	Long:    `dxcss watches markup for utility class tokens and keeps a single CSS artifact in sync with minimum I/O.`,
	Version: version,
}

var configFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to .dx/config.toml (optional)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(dedupeCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
