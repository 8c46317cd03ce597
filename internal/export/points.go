package export

import (
	"time"

	"github.com/Spok95/pool-tracker/internal/models"
)

const (
	SheetLeaderboard = "Leaderboard"
	SheetHistory     = "History"
)

// PointsWorkbook — рейтинг студентов и полный журнал начислений.
func PointsWorkbook(board []models.StudentTotal, history []models.PointEntryWithUser, loc *time.Location) (*Workbook, error) {
	if loc == nil {
		loc = time.UTC
	}
	lb := SheetSpec{
		Title:  SheetLeaderboard,
		Header: []string{"Rank", "Last name", "First name", "Email", "Team", "Points"},
	}
	for i, s := range board {
		team := ""
		if s.TeamName != nil {
			team = *s.TeamName
		}
		lb.Rows = append(lb.Rows, []any{i + 1, s.LastName, s.FirstName, s.Email, team, s.Total})
	}

	hist := SheetSpec{
		Title:  SheetHistory,
		Header: []string{"Date", "Student", "Email", "Value", "Reason", "Given by"},
	}
	for _, e := range history {
		hist.Rows = append(hist.Rows, []any{
			e.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			e.UserName, e.UserEmail, e.Value, e.Reason, e.ActorName,
		})
	}
	return NewWorkbook([]SheetSpec{lb, hist})
}
