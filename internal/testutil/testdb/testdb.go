//go:build testutil
// +build testutil

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/Spok95/pool-tracker/internal/db"
	"github.com/Spok95/pool-tracker/internal/models"
)

type DBHandle struct {
	DB     *sql.DB
	cancel func()
	stop   func(context.Context) error
}

func (h *DBHandle) Close() {
	if h.DB != nil {
		_ = h.DB.Close()
	}
	if h.stop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.stop(ctx)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// Start поднимает postgres в контейнере и применяет миграции goose.
func Start(ctx context.Context) (*DBHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:17-alpine"),
		postgres.WithDatabase("pool"),
		postgres.WithUsername("pool"),
		postgres.WithPassword("pool"),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	fail := func(err error) (*DBHandle, error) {
		_ = pg.Terminate(context.Background())
		cancel()
		return nil, err
	}

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fail(err)
	}
	database, err := sql.Open("pgx", uri)
	if err != nil {
		return fail(err)
	}
	if err := waitReady(ctx, database); err != nil {
		return fail(err)
	}
	if err := db.Migrate(ctx, database); err != nil {
		return fail(fmt.Errorf("migrate: %w", err))
	}

	return &DBHandle{
		DB:     database,
		cancel: cancel,
		stop:   pg.Terminate,
	}, nil
}

// MustStart — Start для тестов: падает сразу, закрывается через t.Cleanup.
func MustStart(t testing.TB) *DBHandle {
	t.Helper()
	h, err := Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Close)
	return h
}

func waitReady(ctx context.Context, database *sql.DB) error {
	dead := time.Now().Add(20 * time.Second)
	for time.Now().Before(dead) {
		if err := database.PingContext(ctx); err == nil {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return errors.New("db not ready")
}

// SeedUser — пользователь с заданной ролью и уникальным email.
func SeedUser(t testing.TB, database *sql.DB, first string, role models.Role) int64 {
	t.Helper()
	var id int64
	err := database.QueryRow(`
		INSERT INTO users (email, first_name, last_name, role, is_first_login)
		VALUES (lower($1) || '.' || floor(random()*1e9)::bigint || '@pool.test', $1, 'Test', $2, FALSE)
		RETURNING id`, first, string(role)).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

// SeedQuest — активный квест.
func SeedQuest(t testing.TB, database *sql.DB, name, code string, points int) int64 {
	t.Helper()
	var id int64
	err := database.QueryRow(`
		INSERT INTO quests (name, description, secret_code, points, is_active)
		VALUES ($1, '', $2, $3, TRUE) RETURNING id`, name, code, points).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}
