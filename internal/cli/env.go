package cli

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/config"
	"github.com/Spok95/pool-tracker/internal/db"
	"github.com/Spok95/pool-tracker/internal/logging"
	"github.com/Spok95/pool-tracker/internal/observability"
)

// env — общее окружение команд: конфиг, логгер, Sentry и БД.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *sql.DB

	closers []func()
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var logOpts []logging.Option
	if cfg.LogFile != "" {
		logOpts = append(logOpts, logging.WithFile(cfg.LogFile))
	}
	lg, err := logging.Init(cfg.LogLevel, cfg.Env, logOpts...)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	e := &env{cfg: cfg, log: lg.Base}
	e.closers = append(e.closers, lg.Closer)

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		e.log.Warn("sentry init failed", zap.Error(err))
	}
	e.closers = append(e.closers, flush)

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("open db: %w", err)
	}
	e.db = database
	e.closers = append(e.closers, func() { _ = database.Close() })
	return e, nil
}

// close — в обратном порядке: БД, Sentry, логгер.
func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}
