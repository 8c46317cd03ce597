package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/db"
	"github.com/Spok95/pool-tracker/internal/models"
)

type Service struct {
	db     *sql.DB
	issuer *Issuer
	log    *zap.Logger
}

func NewService(database *sql.DB, issuer *Issuer, log *zap.Logger) *Service {
	return &Service{db: database, issuer: issuer, log: log}
}

// LoginResult: при RequiresPasswordSet токена нет, пользователь сначала задаёт пароль.
type LoginResult struct {
	Token               string       `json:"token,omitempty"`
	User                *models.User `json:"user"`
	RequiresPasswordSet bool         `json:"requiresPasswordSet"`
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := db.GetUserByEmail(ctx, s.db, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.HasPassword() {
		return &LoginResult{User: u, RequiresPasswordSet: true}, nil
	}
	if err := CheckPassword(*u.PasswordHash, password); err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			s.log.Info("login failed", zap.Int64("user_id", u.ID))
		}
		return nil, err
	}
	token, err := s.issuer.Issue(u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: u}, nil
}

// SetPassword — первый вход: пароль задаётся только если его ещё нет.
func (s *Service) SetPassword(ctx context.Context, email, password string) (*LoginResult, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u, err := db.SetInitialPassword(ctx, s.db, email, hash)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	token, err := s.issuer.Issue(u)
	if err != nil {
		return nil, err
	}
	s.log.Info("initial password set", zap.Int64("user_id", u.ID))
	return &LoginResult{Token: token, User: u}, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	u, err := db.GetUserByID(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if !u.HasPassword() {
		return fmt.Errorf("password not set: %w", models.ErrConflict)
	}
	if err := CheckPassword(*u.PasswordHash, oldPassword); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := db.SetPassword(ctx, s.db, userID, hash); err != nil {
		return err
	}
	s.log.Info("password changed", zap.Int64("user_id", userID))
	return nil
}

// Authenticate — пользователь по bearer-токену. Удалённый пользователь с живым токеном не проходит.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	u, err := db.GetUserByID(ctx, s.db, claims.ID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("user %d gone: %w", claims.ID, models.ErrInvalidCredentials)
	}
	return u, err
}
