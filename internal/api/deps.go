package api

import (
	"context"

	"github.com/Spok95/pool-tracker/internal/auth"
	"github.com/Spok95/pool-tracker/internal/ledger"
	"github.com/Spok95/pool-tracker/internal/models"
	"github.com/Spok95/pool-tracker/internal/quest"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	SetPassword(ctx context.Context, email, password string) (*auth.LoginResult, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type QuestEngine interface {
	DailyQuest(ctx context.Context, studentID int64) (*models.DailyQuestView, error)
	DailyQuestOn(ctx context.Context, studentID int64, day string) (*models.DailyQuestView, error)
	Submit(ctx context.Context, assignmentID, studentID int64, code string) (quest.Result, error)
	Statistics(ctx context.Context) (*models.QuestStatistics, error)
	Config(ctx context.Context) (models.QuestConfig, error)
	UpdateConfig(ctx context.Context, c models.QuestConfig) (models.QuestConfig, error)
}

type QuestCatalog interface {
	List(ctx context.Context) ([]models.Quest, error)
	Get(ctx context.Context, id int64) (*models.Quest, error)
	Create(ctx context.Context, in models.QuestInput) (*models.Quest, error)
	Update(ctx context.Context, id int64, in models.QuestInput) (*models.Quest, error)
	Delete(ctx context.Context, id int64) error
}

// Assigner — ручной запуск ежедневной выдачи (с отчётом персоналу).
type Assigner interface {
	AssignNow(ctx context.Context) (int, error)
}

type Ledger interface {
	Add(ctx context.Context, actor *models.User, in models.NewPoints) (*models.PointEntry, error)
	History(ctx context.Context, userID int64) ([]models.PointEntry, error)
	Total(ctx context.Context, userID int64) (int, error)
	Summary(ctx context.Context) ([]models.StudentTotal, error)
	Snapshot(ctx context.Context) (*ledger.Snapshot, error)
}

type Teams interface {
	List(ctx context.Context) ([]models.Team, error)
	WithPoints(ctx context.Context) ([]models.TeamWithPoints, error)
	Get(ctx context.Context, id int64) (*models.Team, error)
	Create(ctx context.Context, in models.TeamInput) (*models.Team, error)
	Update(ctx context.Context, id int64, in models.TeamInput) (*models.Team, error)
	Delete(ctx context.Context, id int64) error
	Members(ctx context.Context, teamID int64) ([]models.TeamMember, error)
	TopStudents(ctx context.Context, teamID int64, limit int) ([]models.TeamMember, error)
	AddMember(ctx context.Context, teamID, userID int64) error
	RemoveMember(ctx context.Context, teamID, userID int64) error
}

type Users interface {
	List(ctx context.Context, role string) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, actor *models.User, in models.NewUser) (*models.User, error)
	Update(ctx context.Context, actor *models.User, id int64, upd models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
}
