package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

// Execute — точка входа cmd/pooltracker.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pooltracker",
		Short:         "Pool student tracker: daily quests, points and teams",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newServeCmd(), newMigrateCmd(), newAssignCmd())
	return cmd
}
