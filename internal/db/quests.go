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

const questColumns = `id, name, description, secret_code, points, is_active, created_at, updated_at`

func scanQuest(r rowScanner) (*models.Quest, error) {
	var q models.Quest
	if err := r.Scan(&q.ID, &q.Name, &q.Description, &q.SecretCode, &q.Points, &q.IsActive, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

// секретный код храним как есть: сравнение строгое, без нормализации
func CreateQuest(ctx context.Context, database Querier, in models.QuestInput) (*models.Quest, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return scanQuest(database.QueryRowContext(ctx, `
		INSERT INTO quests (name, description, secret_code, points, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+questColumns,
		strings.TrimSpace(in.Name), in.Description, in.SecretCode, in.Points, active))
}

func GetQuest(ctx context.Context, database Querier, id int64) (*models.Quest, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	q, err := scanQuest(database.QueryRowContext(ctx, `SELECT `+questColumns+` FROM quests WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quest %d: %w", id, models.ErrNotFound)
	}
	return q, err
}

func ListQuests(ctx context.Context, database Querier) ([]models.Quest, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `SELECT `+questColumns+` FROM quests ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.Quest{}
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

// ActiveQuestIDs — id активных квестов, из которых выбирается ежедневное задание.
func ActiveQuestIDs(ctx context.Context, q Querier) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM quests WHERE is_active = TRUE ORDER BY id`)
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

func UpdateQuest(ctx context.Context, database Querier, id int64, in models.QuestInput) (*models.Quest, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	q, err := scanQuest(database.QueryRowContext(ctx, `
		UPDATE quests
		SET name = $1, description = $2, secret_code = $3, points = $4,
		    is_active = COALESCE($5, is_active), updated_at = now()
		WHERE id = $6
		RETURNING `+questColumns,
		strings.TrimSpace(in.Name), in.Description, in.SecretCode, in.Points, in.IsActive, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quest %d: %w", id, models.ErrNotFound)
	}
	return q, err
}

// DeleteQuest — история выдач удаляется каскадом на стороне БД.
func DeleteQuest(ctx context.Context, database Querier, id int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `DELETE FROM quests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
