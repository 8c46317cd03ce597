package db

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/Spok95/pool-tracker/internal/ctxutil"
	"github.com/Spok95/pool-tracker/internal/models"
)

// QuestStatistics — сводка по квестам; «сегодня» передаётся датой YYYY-MM-DD.
func QuestStatistics(ctx context.Context, database Querier, day string) (*models.QuestStatistics, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	st := &models.QuestStatistics{QuestStats: []models.QuestStat{}}
	err := database.QueryRowContext(ctx, `
		SELECT
		    (SELECT count(*) FROM quests),
		    (SELECT count(*) FROM quests WHERE is_active),
		    (SELECT count(*) FROM daily_quests WHERE assigned_date = $1::date),
		    (SELECT count(*) FROM daily_quests WHERE assigned_date = $1::date AND is_completed)`, day,
	).Scan(&st.TotalQuests, &st.ActiveQuests, &st.TodayAssignments, &st.TodayCompletions)
	if err != nil {
		return nil, err
	}

	rows, err := database.QueryContext(ctx, `
		SELECT q.id, q.name, q.points,
		       count(dq.id) AS assigned,
		       count(dq.id) FILTER (WHERE dq.is_completed) AS completed
		FROM quests q
		LEFT JOIN daily_quests dq ON dq.quest_id = q.id
		WHERE q.is_active
		GROUP BY q.id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var s models.QuestStat
		if err := rows.Scan(&s.QuestID, &s.Name, &s.Points, &s.TimesAssigned, &s.TimesCompleted); err != nil {
			return nil, err
		}
		s.CompletionRate = completionRate(s.TimesCompleted, s.TimesAssigned)
		st.QuestStats = append(st.QuestStats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortStats(st.QuestStats)
	return st, nil
}

func completionRate(completed, assigned int) float64 {
	if assigned == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(assigned)*100*100) / 100
}

// по убыванию доли выполнения, при равенстве по имени
func sortStats(xs []models.QuestStat) {
	slices.SortStableFunc(xs, func(a, b models.QuestStat) int {
		if c := cmp.Compare(b.CompletionRate, a.CompletionRate); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}
