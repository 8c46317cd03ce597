// Package ledger — ручные начисления и чтение журнала баллов.
package ledger

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/db"
	"github.com/Spok95/pool-tracker/internal/metrics"
	"github.com/Spok95/pool-tracker/internal/models"
)

type Service struct {
	db  *sql.DB
	log *zap.Logger
}

func NewService(database *sql.DB, log *zap.Logger) *Service {
	return &Service{db: database, log: log}
}

// Add записывает начисление (или списание) от имени сотрудника. Получатель — только студент.
func (s *Service) Add(ctx context.Context, actor *models.User, in models.NewPoints) (*models.PointEntry, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	recipient, err := db.GetUserByID(ctx, s.db, in.UserID)
	if err != nil {
		return nil, err
	}
	if recipient.Role != models.Student {
		return nil, models.NewValidationError("userId", "points can only be given to students")
	}

	e, err := db.InsertPoints(ctx, s.db, recipient.ID, in.Value, in.Reason, models.UserActor(actor.ID))
	if err != nil {
		return nil, err
	}
	e.ActorName = actor.FullName()

	metrics.PointEntries.WithLabelValues(string(models.ActorUser)).Inc()
	s.log.Info("points added",
		zap.Int64("user_id", recipient.ID),
		zap.Int("value", in.Value),
		zap.Int64("by", actor.ID))
	return e, nil
}

func (s *Service) History(ctx context.Context, userID int64) ([]models.PointEntry, error) {
	if _, err := db.GetUserByID(ctx, s.db, userID); err != nil {
		return nil, err
	}
	return db.PointHistory(ctx, s.db, userID)
}

func (s *Service) Total(ctx context.Context, userID int64) (int, error) {
	if _, err := db.GetUserByID(ctx, s.db, userID); err != nil {
		return 0, err
	}
	return db.PointTotal(ctx, s.db, userID)
}

// Summary — все студенты по убыванию суммы.
func (s *Service) Summary(ctx context.Context) ([]models.StudentTotal, error) {
	return db.StudentTotals(ctx, s.db)
}

// Snapshot — данные для выгрузки: рейтинг и весь журнал.
type Snapshot struct {
	Leaderboard []models.StudentTotal
	History     []models.PointEntryWithUser
}

func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	board, err := db.StudentTotals(ctx, s.db)
	if err != nil {
		return nil, err
	}
	hist, err := db.AllPointHistory(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Leaderboard: board, History: hist}, nil
}
