package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Spok95/pool-tracker/internal/ctxutil"
	"github.com/Spok95/pool-tracker/internal/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, is_first_login, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(r rowScanner) (*models.User, error) {
	var u models.User
	var hash sql.NullString
	if err := r.Scan(&u.ID, &u.Email, &hash, &u.FirstName, &u.LastName, &u.Role, &u.IsFirstLogin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if hash.Valid {
		u.PasswordHash = &hash.String
	}
	return &u, nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// CreateUser — passwordHash может быть nil: тогда пароль задаётся при первом входе.
func CreateUser(ctx context.Context, database Querier, in models.NewUser, passwordHash *string) (*models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	row := database.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role, is_first_login)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		normalizeEmail(in.Email), passwordHash, strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName),
		string(in.Role), passwordHash == nil,
	)
	u, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email %q already in use: %w", in.Email, models.ErrConflict)
		}
		return nil, err
	}
	return u, nil
}

func GetUserByID(ctx context.Context, database Querier, id int64) (*models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	u, err := scanUser(database.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	return u, err
}

func GetUserByEmail(ctx context.Context, database Querier, email string) (*models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	u, err := scanUser(database.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, normalizeEmail(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return u, err
}

// ListUsers — все пользователи или только одной роли (role == "").
func ListUsers(ctx context.Context, database Querier, role models.Role) ([]models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	q := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if role != "" {
		q += ` WHERE role = $1`
		args = append(args, string(role))
	}
	q += ` ORDER BY last_name, first_name, id`

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// StudentIDs — все пользователи с ролью STUDENT.
func StudentIDs(ctx context.Context, q Querier) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM users WHERE role = $1 ORDER BY id`, string(models.Student))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// lockAdmins блокирует строки всех админов в транзакции и возвращает их количество.
// Так два параллельных понижения/удаления не оставят систему без админа.
func lockAdmins(ctx context.Context, tx *sql.Tx) (int, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM users WHERE role = $1 FOR UPDATE`, string(models.Admin))
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()
	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

// UpdateUser обновляет переданные поля. Понизить последнего админа нельзя.
func UpdateUser(ctx context.Context, database *sql.DB, id int64, upd models.UserUpdate) (*models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := scanUser(tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if upd.Role != nil && cur.Role == models.Admin && *upd.Role != models.Admin {
		n, err := lockAdmins(ctx, tx)
		if err != nil {
			return nil, err
		}
		if n <= 1 {
			return nil, fmt.Errorf("cannot demote the last admin: %w", models.ErrConflict)
		}
	}

	email, first, last, role := cur.Email, cur.FirstName, cur.LastName, cur.Role
	if upd.Email != nil {
		email = normalizeEmail(*upd.Email)
	}
	if upd.FirstName != nil {
		first = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		last = strings.TrimSpace(*upd.LastName)
	}
	if upd.Role != nil {
		role = *upd.Role
	}

	u, err := scanUser(tx.QueryRowContext(ctx, `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, role = $4, updated_at = now()
		WHERE id = $5
		RETURNING `+userColumns, email, first, last, string(role), id))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email %q already in use: %w", email, models.ErrConflict)
		}
		return nil, err
	}
	// бывший студент не может оставаться в команде
	if role != models.Student {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_teams WHERE user_id = $1`, id); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser удаляет пользователя. Последнего админа удалить нельзя.
func DeleteUser(ctx context.Context, database *sql.DB, id int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var role models.Role
	err = tx.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if role == models.Admin {
		n, err := lockAdmins(ctx, tx)
		if err != nil {
			return err
		}
		if n <= 1 {
			return fmt.Errorf("cannot delete the last admin: %w", models.ErrConflict)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// SetPassword меняет пароль и снимает флаг первого входа.
func SetPassword(ctx context.Context, database Querier, id int64, hash string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `
		UPDATE users SET password_hash = $1, is_first_login = FALSE, updated_at = now()
		WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// SetInitialPassword задаёт пароль только тем, у кого его ещё нет (первый вход).
func SetInitialPassword(ctx context.Context, database Querier, email, hash string) (*models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	u, err := scanUser(database.QueryRowContext(ctx, `
		UPDATE users SET password_hash = $1, is_first_login = FALSE, updated_at = now()
		WHERE email = $2 AND password_hash IS NULL
		RETURNING `+userColumns, hash, normalizeEmail(email)))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if _, err := GetUserByEmail(ctx, database, email); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("password already set: %w", models.ErrConflict)
}

func CountByRole(ctx context.Context, database Querier, role models.Role) (int, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var n int
	err := database.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE role = $1`, string(role)).Scan(&n)
	return n, err
}
