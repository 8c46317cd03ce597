package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Spok95/pool-tracker/internal/ctxutil"
	"github.com/Spok95/pool-tracker/internal/models"
)

// InsertPoints добавляет запись в журнал. Записи журнала никогда не меняются и не удаляются.
func InsertPoints(ctx context.Context, q Querier, userID int64, value int, reason string, actor models.Actor) (*models.PointEntry, error) {
	var actorID *int64
	if !actor.IsSystem() {
		id := actor.UserID
		actorID = &id
	}
	e := models.PointEntry{UserID: userID, Value: value, Reason: reason, ActorKind: actor.Kind, ActorID: actorID}
	err := q.QueryRowContext(ctx, `
		INSERT INTO points (user_id, value, reason, actor_kind, actor_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		userID, value, reason, string(actor.Kind), actorID,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert points: %w", err)
	}
	return &e, nil
}

const pointEntryColumns = `
	p.id, p.user_id, p.value, p.reason, p.actor_kind, p.actor_id,
	CASE WHEN p.actor_kind = 'system' THEN 'System'
	     ELSE COALESCE(a.first_name || ' ' || a.last_name, 'Deleted user') END AS actor_name,
	p.created_at`

func scanPointEntry(r rowScanner, e *models.PointEntry) error {
	var actorID sql.NullInt64
	if err := r.Scan(&e.ID, &e.UserID, &e.Value, &e.Reason, &e.ActorKind, &actorID, &e.ActorName, &e.CreatedAt); err != nil {
		return err
	}
	if actorID.Valid {
		id := actorID.Int64
		e.ActorID = &id
	}
	return nil
}

// PointHistory — записи пользователя, свежие сверху.
func PointHistory(ctx context.Context, database Querier, userID int64) ([]models.PointEntry, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT `+pointEntryColumns+`
		FROM points p
		LEFT JOIN users a ON a.id = p.actor_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.PointEntry{}
	for rows.Next() {
		var e models.PointEntry
		if err := scanPointEntry(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AllPointHistory — весь журнал с получателями (для экспорта).
func AllPointHistory(ctx context.Context, database Querier) ([]models.PointEntryWithUser, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT `+pointEntryColumns+`, u.first_name || ' ' || u.last_name, u.email
		FROM points p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN users a ON a.id = p.actor_id
		ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.PointEntryWithUser{}
	for rows.Next() {
		var e models.PointEntryWithUser
		var actorID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.UserID, &e.Value, &e.Reason, &e.ActorKind, &actorID, &e.ActorName, &e.CreatedAt,
			&e.UserName, &e.UserEmail); err != nil {
			return nil, err
		}
		if actorID.Valid {
			id := actorID.Int64
			e.ActorID = &id
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// PointTotal — сумма по журналу. Итог нигде не хранится.
func PointTotal(ctx context.Context, database Querier, userID int64) (int, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var total int
	err := database.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(value), 0) FROM points WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

// PointTotals — суммы сразу для набора пользователей; у кого нет записей, получат 0.
func PointTotals(ctx context.Context, database Querier, userIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT user_id, COALESCE(SUM(value), 0)
		FROM points
		WHERE user_id = ANY($1::bigint[])
		GROUP BY user_id`, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for _, id := range userIDs {
		out[id] = 0
	}
	for rows.Next() {
		var id int64
		var total int
		if err := rows.Scan(&id, &total); err != nil {
			return nil, err
		}
		out[id] = total
	}
	return out, rows.Err()
}

// StudentTotals — рейтинг: все студенты с командой и суммой баллов.
func StudentTotals(ctx context.Context, database Querier) ([]models.StudentTotal, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT u.id, u.email, u.first_name, u.last_name, t.id, t.name, COALESCE(SUM(p.value), 0) AS total
		FROM users u
		LEFT JOIN user_teams ut ON ut.user_id = u.id
		LEFT JOIN teams t ON t.id = ut.team_id
		LEFT JOIN points p ON p.user_id = u.id
		WHERE u.role = $1
		GROUP BY u.id, t.id
		ORDER BY total DESC, u.last_name, u.first_name`, string(models.Student))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.StudentTotal{}
	for rows.Next() {
		var s models.StudentTotal
		var teamID sql.NullInt64
		var teamName sql.NullString
		if err := rows.Scan(&s.UserID, &s.Email, &s.FirstName, &s.LastName, &teamID, &teamName, &s.Total); err != nil {
			return nil, err
		}
		if teamID.Valid {
			id, name := teamID.Int64, teamName.String
			s.TeamID, s.TeamName = &id, &name
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
