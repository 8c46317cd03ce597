package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			if err := db.Migrate(cmd.Context(), e.db); err != nil {
				return err
			}
			v, err := db.MigrationVersion(cmd.Context(), e.db)
			if err != nil {
				return err
			}
			e.log.Info("migrations applied", zap.Int64("version", v))
			return nil
		},
	}
}
