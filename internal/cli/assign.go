package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/db"
	"github.com/Spok95/pool-tracker/internal/jobs"
	"github.com/Spok95/pool-tracker/internal/quest"
)

// assign — ручная выдача квестов на сегодня, например если сервис лежал в час выдачи.
func newAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign",
		Short: "Assign today's daily quests once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			if err := db.Migrate(ctx, e.db); err != nil {
				return err
			}
			engine := quest.NewEngine(e.db, e.log, e.cfg.Location)
			sched := jobs.NewQuestScheduler(engine, engine, newNotifier(e), e.log, e.cfg.Location)
			n, err := sched.AssignNow(ctx)
			if err != nil {
				return err
			}
			e.log.Info("manual assignment done", zap.Int("created", n))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d assignment(s) created for %s\n", n, engine.Today())
			return nil
		},
	}
}
