package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/pool-tracker/internal/models"
)

// EnsureDefaultAdmin создаёт админа, если в системе нет ни одного. Возвращает true, если создал.
func EnsureDefaultAdmin(ctx context.Context, database *sql.DB, email, passwordHash string) (bool, error) {
	tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	// два процесса могут стартовать одновременно
	if _, err := tx.ExecContext(ctx, `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return false, err
	}
	n, err := CountByRole(ctx, tx, models.Admin)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	hash := passwordHash
	if _, err := CreateUser(ctx, tx, models.NewUser{
		Email:     email,
		FirstName: "Admin",
		LastName:  "Pool",
		Role:      models.Admin,
	}, &hash); err != nil {
		return false, err
	}
	return true, tx.Commit()
}
