package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Spok95/pool-tracker/internal/ctxutil"
	"github.com/Spok95/pool-tracker/internal/models"
)

// InsertDailyQuest — атомарная проверка-и-вставка по (user_id, assigned_date).
// Существующую выдачу не трогает; true — строка создана.
func InsertDailyQuest(ctx context.Context, q Querier, userID, questID int64, day string, expiresAt time.Time) (bool, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO daily_quests (user_id, quest_id, assigned_date, expires_at)
		VALUES ($1, $2, $3::date, $4)
		ON CONFLICT (user_id, assigned_date) DO NOTHING`,
		userID, questID, day, expiresAt)
	if err != nil {
		return false, fmt.Errorf("insert daily quest for user %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// DailyQuestForUser — выдача студента за день вместе с квестом. Секретный код не выбирается.
func DailyQuestForUser(ctx context.Context, database Querier, userID int64, day string) (*models.DailyQuestView, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var v models.DailyQuestView
	var completedAt sql.NullTime
	err := database.QueryRowContext(ctx, `
		SELECT dq.id, dq.user_id, dq.quest_id, to_char(dq.assigned_date, 'YYYY-MM-DD'),
		       dq.is_completed, dq.completed_at, dq.expires_at, dq.created_at,
		       q.name, q.description, q.points
		FROM daily_quests dq
		JOIN quests q ON q.id = dq.quest_id
		WHERE dq.user_id = $1 AND dq.assigned_date = $2::date`, userID, day,
	).Scan(&v.ID, &v.UserID, &v.QuestID, &v.AssignedDate, &v.IsCompleted, &completedAt, &v.ExpiresAt, &v.CreatedAt,
		&v.Name, &v.Description, &v.Points)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("daily quest for user %d on %s: %w", userID, day, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		v.CompletedAt = &t
	}
	return &v, nil
}

// LockDailyQuest читает выдачу с FOR UPDATE. Это точка сериализации отправок кода:
// вторая транзакция ждёт коммита первой и уже видит is_completed.
func LockDailyQuest(ctx context.Context, tx *sql.Tx, id int64) (*models.LockedDailyQuest, error) {
	var l models.LockedDailyQuest
	var completedAt sql.NullTime
	err := tx.QueryRowContext(ctx, `
		SELECT dq.id, dq.user_id, dq.quest_id, to_char(dq.assigned_date, 'YYYY-MM-DD'),
		       dq.is_completed, dq.completed_at, dq.expires_at, dq.created_at,
		       q.name, q.secret_code, q.points
		FROM daily_quests dq
		JOIN quests q ON q.id = dq.quest_id
		WHERE dq.id = $1
		FOR UPDATE OF dq`, id,
	).Scan(&l.ID, &l.UserID, &l.QuestID, &l.AssignedDate, &l.IsCompleted, &completedAt, &l.ExpiresAt, &l.CreatedAt,
		&l.QuestName, &l.SecretCode, &l.Points)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("daily quest %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		l.CompletedAt = &t
	}
	return &l, nil
}

func CompleteDailyQuest(ctx context.Context, tx *sql.Tx, id int64, at time.Time) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE daily_quests SET is_completed = TRUE, completed_at = $1
		WHERE id = $2 AND is_completed = FALSE`, at, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("daily quest %d: already completed: %w", id, models.ErrConflict)
	}
	return nil
}

// InsertSubmission пишет аудит-запись попытки. Пишется на каждую попытку, с любым исходом.
func InsertSubmission(ctx context.Context, q Querier, dailyQuestID, userID int64, code string, ok bool, at time.Time) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO quest_submissions (daily_quest_id, user_id, submitted_code, is_successful, submitted_at)
		VALUES ($1, $2, $3, $4, $5)`, dailyQuestID, userID, code, ok, at)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func ListSubmissions(ctx context.Context, database Querier, dailyQuestID int64) ([]models.QuestSubmission, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT id, daily_quest_id, user_id, submitted_code, is_successful, submitted_at
		FROM quest_submissions
		WHERE daily_quest_id = $1
		ORDER BY submitted_at, id`, dailyQuestID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.QuestSubmission{}
	for rows.Next() {
		var s models.QuestSubmission
		if err := rows.Scan(&s.ID, &s.DailyQuestID, &s.UserID, &s.SubmittedCode, &s.IsSuccessful, &s.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountDailyQuests — сколько выдач за день (нужно для проверок идемпотентности и статистики).
func CountDailyQuests(ctx context.Context, database Querier, day string) (int, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var n int
	err := database.QueryRowContext(ctx, `SELECT count(*) FROM daily_quests WHERE assigned_date = $1::date`, day).Scan(&n)
	return n, err
}
