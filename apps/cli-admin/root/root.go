package root

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the clubtrack admin CLI. Subcommands
// (bootstrap, person, etc.) are attached here.
var rootCmd = &cobra.Command{
	Use:           "clubtrack",
	Short:         "clubtrack admin CLI",
	Long:          "Administrative utilities for clubtrack (schema bootstrap, person provisioning).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
