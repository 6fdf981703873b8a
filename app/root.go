// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "souls-console",
	Short: "Souls Console is a web-based training console for AI souls",
	Long: `Souls Console is a web-based training console for AI souls
that provides chat, training and counselor review surfaces gated by role.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
