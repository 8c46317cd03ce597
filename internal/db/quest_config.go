package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Spok95/pool-tracker/internal/models"
)

// GetQuestConfig читает единственную строку настроек; если её нет — значения по умолчанию.
func GetQuestConfig(ctx context.Context, q Querier) (models.QuestConfig, error) {
	var c models.QuestConfig
	err := q.QueryRowContext(ctx, `
		SELECT assignment_hour, duration_hours, updated_at FROM quest_config WHERE id = 1`,
	).Scan(&c.AssignmentHour, &c.DurationHours, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultQuestConfig(), nil
	}
	if err != nil {
		return models.QuestConfig{}, err
	}
	return c, nil
}

// UpsertQuestConfig — значения должны быть уже проверены вызывающим.
func UpsertQuestConfig(ctx context.Context, q Querier, c models.QuestConfig) (models.QuestConfig, error) {
	var out models.QuestConfig
	err := q.QueryRowContext(ctx, `
		INSERT INTO quest_config (id, assignment_hour, duration_hours, updated_at)
		VALUES (1, $1, $2, now())
		ON CONFLICT (id) DO UPDATE
		SET assignment_hour = EXCLUDED.assignment_hour,
		    duration_hours  = EXCLUDED.duration_hours,
		    updated_at      = now()
		RETURNING assignment_hour, duration_hours, updated_at`,
		c.AssignmentHour, c.DurationHours,
	).Scan(&out.AssignmentHour, &out.DurationHours, &out.UpdatedAt)
	return out, err
}
