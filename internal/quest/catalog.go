package quest

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/db"
	"github.com/Spok95/pool-tracker/internal/models"
)

// Catalog — CRUD квестов для персонала. Валидация до любой записи в БД.
type Catalog struct {
	db  *sql.DB
	log *zap.Logger
}

func NewCatalog(database *sql.DB, log *zap.Logger) *Catalog {
	return &Catalog{db: database, log: log}
}

func (c *Catalog) List(ctx context.Context) ([]models.Quest, error) {
	return db.ListQuests(ctx, c.db)
}

func (c *Catalog) Get(ctx context.Context, id int64) (*models.Quest, error) {
	return db.GetQuest(ctx, c.db, id)
}

func (c *Catalog) Create(ctx context.Context, in models.QuestInput) (*models.Quest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	q, err := db.CreateQuest(ctx, c.db, in)
	if err != nil {
		return nil, err
	}
	c.log.Info("quest created", zap.Int64("quest_id", q.ID), zap.String("name", q.Name))
	return q, nil
}

func (c *Catalog) Update(ctx context.Context, id int64, in models.QuestInput) (*models.Quest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return db.UpdateQuest(ctx, c.db, id, in)
}

func (c *Catalog) Delete(ctx context.Context, id int64) error {
	if err := db.DeleteQuest(ctx, c.db, id); err != nil {
		return err
	}
	c.log.Info("quest deleted", zap.Int64("quest_id", id))
	return nil
}
