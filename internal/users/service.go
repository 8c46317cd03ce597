// Package users — управление учётками персоналом с проверкой прав на целевую роль.
package users

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/access"
	"github.com/Spok95/pool-tracker/internal/auth"
	"github.com/Spok95/pool-tracker/internal/db"
	"github.com/Spok95/pool-tracker/internal/models"
)

type Service struct {
	db  *sql.DB
	log *zap.Logger
}

func NewService(database *sql.DB, log *zap.Logger) *Service {
	return &Service{db: database, log: log}
}

func roleError() error {
	names := make([]string, 0, len(models.Roles))
	for _, r := range models.Roles {
		names = append(names, string(r))
	}
	return models.NewValidationError("role", "must be one of: "+strings.Join(names, ", "))
}

func (s *Service) List(ctx context.Context, role string) ([]models.User, error) {
	var r models.Role
	if role != "" {
		var ok bool
		if r, ok = models.ParseRole(role); !ok {
			return nil, roleError()
		}
	}
	return db.ListUsers(ctx, s.db, r)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.User, error) {
	return db.GetUserByID(ctx, s.db, id)
}

func (s *Service) Create(ctx context.Context, actor *models.User, in models.NewUser) (*models.User, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	role, ok := models.ParseRole(string(in.Role))
	if !ok {
		return nil, roleError()
	}
	in.Role = role
	if !access.CanManage(actor.Role, role) {
		return nil, fmt.Errorf("%s cannot create %s: %w", actor.Role, role, models.ErrForbidden)
	}

	var hash *string
	if in.Password != "" {
		h, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		hash = &h
	}
	u, err := db.CreateUser(ctx, s.db, in, hash)
	if err != nil {
		return nil, err
	}
	s.log.Info("user created",
		zap.Int64("user_id", u.ID),
		zap.String("role", string(u.Role)),
		zap.Int64("by", actor.ID))
	return u, nil
}

func (s *Service) Update(ctx context.Context, actor *models.User, id int64, upd models.UserUpdate) (*models.User, error) {
	if err := models.Validate(upd); err != nil {
		return nil, err
	}
	target, err := db.GetUserByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !access.CanManage(actor.Role, target.Role) {
		return nil, fmt.Errorf("%s cannot manage %s: %w", actor.Role, target.Role, models.ErrForbidden)
	}
	if upd.Role != nil {
		role, ok := models.ParseRole(string(*upd.Role))
		if !ok {
			return nil, roleError()
		}
		if role == target.Role {
			upd.Role = nil
		} else {
			if !access.CanChangeRole(actor.Role, target.Role, role) {
				return nil, fmt.Errorf("%s cannot change role %s -> %s: %w", actor.Role, target.Role, role, models.ErrForbidden)
			}
			upd.Role = &role
		}
	}

	u, err := db.UpdateUser(ctx, s.db, id, upd)
	if err != nil {
		return nil, err
	}
	s.log.Info("user updated", zap.Int64("user_id", id), zap.Int64("by", actor.ID))
	return u, nil
}

func (s *Service) Delete(ctx context.Context, actor *models.User, id int64) error {
	if actor.ID == id {
		return fmt.Errorf("cannot delete yourself: %w", models.ErrForbidden)
	}
	target, err := db.GetUserByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !access.CanManage(actor.Role, target.Role) {
		return fmt.Errorf("%s cannot delete %s: %w", actor.Role, target.Role, models.ErrForbidden)
	}
	if err := db.DeleteUser(ctx, s.db, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Int64("user_id", id), zap.Int64("by", actor.ID))
	return nil
}
