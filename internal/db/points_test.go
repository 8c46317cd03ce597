//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Spok95/pool-tracker/internal/db"
	"github.com/Spok95/pool-tracker/internal/models"
	"github.com/Spok95/pool-tracker/internal/testutil/testdb"
)

func TestInsertPoints_Parallel(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	staff := testdb.SeedUser(t, h.DB, "Staff", models.AER)
	st1 := testdb.SeedUser(t, h.DB, "Student1", models.Student)
	st2 := testdb.SeedUser(t, h.DB, "Student2", models.Student)

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = db.InsertPoints(ctx, h.DB, st1, 3, "parallel", models.UserActor(staff))
		}()
		go func() {
			defer wg.Done()
			_, _ = db.InsertPoints(ctx, h.DB, st2, -1, "parallel", models.SystemActor)
		}()
	}
	wg.Wait()

	totals, err := db.PointTotals(ctx, h.DB, []int64{st1, st2, staff})
	if err != nil {
		t.Fatal(err)
	}
	if totals[st1] != 150 || totals[st2] != -50 || totals[staff] != 0 {
		t.Fatalf("суммы не сошлись: %v", totals)
	}
}

func TestPoints_ActorConstraint(t *testing.T) {
	h := testdb.MustStart(t)
	student := testdb.SeedUser(t, h.DB, "Student", models.Student)

	// системная запись не может ссылаться на пользователя
	_, err := h.DB.Exec(`INSERT INTO points (user_id, value, reason, actor_kind, actor_id) VALUES ($1, 5, '', 'system', $1)`, student)
	if err == nil {
		t.Fatal("ожидали нарушение CHECK для system + actor_id")
	}
}

func TestLastAdminProtection(t *testing.T) {
	h := testdb.MustStart(t)
	ctx := context.Background()
	a1 := testdb.SeedUser(t, h.DB, "Root", models.Admin)
	a2 := testdb.SeedUser(t, h.DB, "Second", models.Admin)

	if err := db.DeleteUser(ctx, h.DB, a2); err != nil {
		t.Fatalf("второго админа удалить можно: %v", err)
	}
	if err := db.DeleteUser(ctx, h.DB, a1); err == nil {
		t.Fatal("последнего админа удалить нельзя")
	}
	role := models.APE
	if _, err := db.UpdateUser(ctx, h.DB, a1, models.UserUpdate{Role: &role}); err == nil {
		t.Fatal("последнего админа понизить нельзя")
	}
}

func TestEnsureDefaultAdmin(t *testing.T) {
	h := testdb.MustStart(t)
	ctx := context.Background()

	created, err := db.EnsureDefaultAdmin(ctx, h.DB, "admin@epitech.eu", "hash")
	if err != nil || !created {
		t.Fatalf("первый запуск: %v %v", created, err)
	}
	created, err = db.EnsureDefaultAdmin(ctx, h.DB, "admin@epitech.eu", "hash")
	if err != nil || created {
		t.Fatalf("повторный запуск не должен создавать: %v %v", created, err)
	}
	u, err := db.GetUserByEmail(ctx, h.DB, "ADMIN@epitech.eu")
	if err != nil || u.Role != models.Admin || u.IsFirstLogin {
		t.Fatalf("админ по умолчанию: %+v %v", u, err)
	}
}
