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

const teamColumns = `id, name, description, color, created_at, updated_at`

func scanTeam(r rowScanner) (*models.Team, error) {
	var t models.Team
	if err := r.Scan(&t.ID, &t.Name, &t.Description, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func teamColor(c models.TeamColor) models.TeamColor {
	if c == "" {
		return models.ColorNone
	}
	return c
}

func CreateTeam(ctx context.Context, database Querier, in models.TeamInput) (*models.Team, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	t, err := scanTeam(database.QueryRowContext(ctx, `
		INSERT INTO teams (name, description, color) VALUES ($1, $2, $3)
		RETURNING `+teamColumns, strings.TrimSpace(in.Name), in.Description, string(teamColor(in.Color))))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("team %q already exists: %w", in.Name, models.ErrConflict)
	}
	return t, err
}

func GetTeam(ctx context.Context, database Querier, id int64) (*models.Team, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	t, err := scanTeam(database.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %d: %w", id, models.ErrNotFound)
	}
	return t, err
}

func ListTeams(ctx context.Context, database Querier) ([]models.Team, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// ListTeamsWithPoints — команды с числом участников и суммой их баллов.
func ListTeamsWithPoints(ctx context.Context, database Querier) ([]models.TeamWithPoints, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT t.id, t.name, t.description, t.color, t.created_at, t.updated_at,
		       COUNT(DISTINCT ut.user_id) AS members,
		       COALESCE((SELECT SUM(p.value) FROM points p
		                 JOIN user_teams m ON m.user_id = p.user_id
		                 WHERE m.team_id = t.id), 0) AS total
		FROM teams t
		LEFT JOIN user_teams ut ON ut.team_id = t.id
		GROUP BY t.id
		ORDER BY total DESC, t.name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.TeamWithPoints{}
	for rows.Next() {
		var t models.TeamWithPoints
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Color, &t.CreatedAt, &t.UpdatedAt, &t.MemberCount, &t.TotalPoints); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func UpdateTeam(ctx context.Context, database Querier, id int64, in models.TeamInput) (*models.Team, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	t, err := scanTeam(database.QueryRowContext(ctx, `
		UPDATE teams SET name = $1, description = $2, color = $3, updated_at = now()
		WHERE id = $4
		RETURNING `+teamColumns, strings.TrimSpace(in.Name), in.Description, string(teamColor(in.Color)), id))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("team %d: %w", id, models.ErrNotFound)
	case isUniqueViolation(err):
		return nil, fmt.Errorf("team %q already exists: %w", in.Name, models.ErrConflict)
	}
	return t, err
}

func DeleteTeam(ctx context.Context, database Querier, id int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// TeamMembers — участники команды без баллов; баллы добавляет вызывающий через PointTotals.
func TeamMembers(ctx context.Context, database Querier, teamID int64) ([]models.TeamMember, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT u.id, u.email, u.first_name, u.last_name, ut.joined_at
		FROM user_teams ut
		JOIN users u ON u.id = ut.user_id
		WHERE ut.team_id = $1
		ORDER BY u.last_name, u.first_name`, teamID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.TeamMember{}
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.UserID, &m.Email, &m.FirstName, &m.LastName, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddTeamMember переводит студента в команду; прежнее членство заменяется.
func AddTeamMember(ctx context.Context, database Querier, teamID, userID int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	if _, err := GetTeam(ctx, database, teamID); err != nil {
		return err
	}
	u, err := GetUserByID(ctx, database, userID)
	if err != nil {
		return err
	}
	if u.Role != models.Student {
		return models.NewValidationError("userId", "only students can join a team")
	}

	_, err = database.ExecContext(ctx, `
		INSERT INTO user_teams (user_id, team_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET team_id = EXCLUDED.team_id, joined_at = now()`, userID, teamID)
	return err
}

func RemoveTeamMember(ctx context.Context, database Querier, teamID, userID int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `DELETE FROM user_teams WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
