package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Spok95/pool-tracker/internal/api"
	"github.com/Spok95/pool-tracker/internal/app"
	"github.com/Spok95/pool-tracker/internal/auth"
	"github.com/Spok95/pool-tracker/internal/db"
	"github.com/Spok95/pool-tracker/internal/jobs"
	"github.com/Spok95/pool-tracker/internal/ledger"
	"github.com/Spok95/pool-tracker/internal/models"
	"github.com/Spok95/pool-tracker/internal/notify"
	"github.com/Spok95/pool-tracker/internal/quest"
	"github.com/Spok95/pool-tracker/internal/teams"
	"github.com/Spok95/pool-tracker/internal/users"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API, the daily quest scheduler and the metrics server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()
			return serve(ctx, e)
		},
	}
}

func serve(ctx context.Context, e *env) error {
	log := e.log
	if err := db.Migrate(ctx, e.db); err != nil {
		return err
	}
	if err := seedAdmin(ctx, e); err != nil {
		return err
	}

	engine := quest.NewEngine(e.db, log, e.cfg.Location)
	sched := jobs.NewQuestScheduler(engine, engine, newNotifier(e), log, e.cfg.Location,
		jobs.WithInterval(e.cfg.SchedulerInterval))

	issuer := auth.NewIssuer(e.cfg.JWTSecret, e.cfg.JWTTTL)
	httpAPI := api.New(api.Deps{
		Log:         log,
		Location:    e.cfg.Location,
		CORSOrigins: e.cfg.CORSOrigins,
		Auth:        auth.NewService(e.db, issuer, log),
		Quests:      engine,
		Catalog:     quest.NewCatalog(e.db, log),
		Assigner:    sched,
		Ledger:      ledger.NewService(e.db, log),
		Teams:       teams.NewService(e.db, log),
		Users:       users.NewService(e.db, log),
	})
	ops := app.NewOpsServer(e.cfg.MetricsAddr, e.db, log)

	sched.Start(ctx)
	defer sched.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ops.Run(gctx) })
	g.Go(func() error {
		log.Info("api listening", zap.String("addr", e.cfg.HTTPAddr))
		return httpAPI.Listen(e.cfg.HTTPAddr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpAPI.ShutdownWithContext(shCtx)
	})

	err := g.Wait()
	log.Info("shutdown complete")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func seedAdmin(ctx context.Context, e *env) error {
	hash, err := auth.HashPassword(e.cfg.DefaultAdminPassword)
	if err != nil {
		return err
	}
	created, err := db.EnsureDefaultAdmin(ctx, e.db, e.cfg.DefaultAdminEmail, hash)
	switch {
	case errors.Is(err, models.ErrConflict):
		// email занят пользователем с другой ролью
		e.log.Warn("default admin not created", zap.String("email", e.cfg.DefaultAdminEmail), zap.Error(err))
		return nil
	case err != nil:
		return err
	}
	if created {
		e.log.Info("default admin created", zap.String("email", e.cfg.DefaultAdminEmail))
		if e.cfg.IsProd() && e.cfg.DefaultAdminPassword == "admin123" {
			e.log.Warn("default admin uses the built-in password, change it")
		}
	}
	return nil
}

func newNotifier(e *env) notify.Notifier {
	if e.cfg.BotToken == "" || len(e.cfg.AdminChatIDs) == 0 {
		return notify.Nop{}
	}
	tg, err := notify.NewTelegram(e.cfg.BotToken, e.cfg.AdminChatIDs, e.log)
	if err != nil {
		e.log.Warn("telegram notifier disabled", zap.Error(err))
		return notify.Nop{}
	}
	return tg
}
