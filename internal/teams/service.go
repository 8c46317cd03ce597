package teams

import (
	"context"
	"database/sql"
	"sort"

	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/db"
	"github.com/Spok95/pool-tracker/internal/models"
)

const DefaultTopLimit = 5

type Service struct {
	db  *sql.DB
	log *zap.Logger
}

func NewService(database *sql.DB, log *zap.Logger) *Service {
	return &Service{db: database, log: log}
}

func (s *Service) List(ctx context.Context) ([]models.Team, error) {
	return db.ListTeams(ctx, s.db)
}

func (s *Service) WithPoints(ctx context.Context) ([]models.TeamWithPoints, error) {
	return db.ListTeamsWithPoints(ctx, s.db)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Team, error) {
	return db.GetTeam(ctx, s.db, id)
}

func (s *Service) Create(ctx context.Context, in models.TeamInput) (*models.Team, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	t, err := db.CreateTeam(ctx, s.db, in)
	if err != nil {
		return nil, err
	}
	s.log.Info("team created", zap.Int64("team_id", t.ID), zap.String("name", t.Name))
	return t, nil
}

func (s *Service) Update(ctx context.Context, id int64, in models.TeamInput) (*models.Team, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	return db.UpdateTeam(ctx, s.db, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := db.DeleteTeam(ctx, s.db, id); err != nil {
		return err
	}
	s.log.Info("team deleted", zap.Int64("team_id", id))
	return nil
}

// Members — участники с баллами, по фамилии.
func (s *Service) Members(ctx context.Context, teamID int64) ([]models.TeamMember, error) {
	if _, err := db.GetTeam(ctx, s.db, teamID); err != nil {
		return nil, err
	}
	members, err := db.TeamMembers(ctx, s.db, teamID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	totals, err := db.PointTotals(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].Points = totals[members[i].UserID]
	}
	return members, nil
}

// TopStudents — первые limit участников по баллам; limit <= 0 — DefaultTopLimit.
func (s *Service) TopStudents(ctx context.Context, teamID int64, limit int) ([]models.TeamMember, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	members, err := s.Members(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return top(members, limit), nil
}

func top(members []models.TeamMember, limit int) []models.TeamMember {
	sort.SliceStable(members, func(i, j int) bool { return members[i].Points > members[j].Points })
	if len(members) > limit {
		members = members[:limit]
	}
	return members
}

func (s *Service) AddMember(ctx context.Context, teamID, userID int64) error {
	if err := db.AddTeamMember(ctx, s.db, teamID, userID); err != nil {
		return err
	}
	s.log.Info("student joined team", zap.Int64("team_id", teamID), zap.Int64("user_id", userID))
	return nil
}

func (s *Service) RemoveMember(ctx context.Context, teamID, userID int64) error {
	if err := db.RemoveTeamMember(ctx, s.db, teamID, userID); err != nil {
		return err
	}
	s.log.Info("student left team", zap.Int64("team_id", teamID), zap.Int64("user_id", userID))
	return nil
}
