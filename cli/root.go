// Package cli defines the command-line interface.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// RootCmd builds the top-level command.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "telassist",
		Short: "Telecom customer-support assistant",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Missing .env is fine; env vars may come from the platform.
			_ = godotenv.Load()
		},
	}

	root.AddCommand(
		ServeCmd(),
	)

	return root
}
