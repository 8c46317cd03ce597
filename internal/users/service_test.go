//go:build testutil
// +build testutil

package users_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/db"
	"github.com/Spok95/pool-tracker/internal/models"
	"github.com/Spok95/pool-tracker/internal/testutil/testdb"
	"github.com/Spok95/pool-tracker/internal/users"
)

func user(t *testing.T, h *testdb.DBHandle, name string, role models.Role) *models.User {
	t.Helper()
	u, err := db.GetUserByID(context.Background(), h.DB, testdb.SeedUser(t, h.DB, name, role))
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestCreate_RoleRights(t *testing.T) {
	h := testdb.MustStart(t)
	ctx := context.Background()
	svc := users.NewService(h.DB, zap.NewNop())
	ape := user(t, h, "Ape", models.APE)
	aer := user(t, h, "Aer", models.AER)

	u, err := svc.Create(ctx, ape, models.NewUser{Email: "new@epitech.eu", FirstName: "N", LastName: "S", Role: "student"})
	if err != nil {
		t.Fatalf("APE создаёт студента: %v", err)
	}
	if u.Role != models.Student || !u.IsFirstLogin {
		t.Fatalf("неожиданный пользователь: %+v", u)
	}

	_, err = svc.Create(ctx, ape, models.NewUser{Email: "adm@epitech.eu", FirstName: "A", LastName: "D", Role: models.Admin})
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("APE не создаёт админов: %v", err)
	}
	_, err = svc.Create(ctx, aer, models.NewUser{Email: "s2@epitech.eu", FirstName: "S", LastName: "T", Role: models.Student})
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("AER никого не создаёт: %v", err)
	}
	_, err = svc.Create(ctx, ape, models.NewUser{Email: "NEW@epitech.eu", FirstName: "D", LastName: "U", Role: models.Student})
	if !errors.Is(err, models.ErrConflict) {
		t.Fatalf("дубль email без учёта регистра: %v", err)
	}
	_, err = svc.Create(ctx, ape, models.NewUser{Email: "x@epitech.eu", FirstName: "X", LastName: "Y", Role: "TEACHER"})
	if !models.IsValidation(err) {
		t.Fatalf("неизвестная роль: %v", err)
	}
}

func TestUpdate_LastAdminAndRoleChange(t *testing.T) {
	h := testdb.MustStart(t)
	ctx := context.Background()
	svc := users.NewService(h.DB, zap.NewNop())
	admin := user(t, h, "Root", models.Admin)
	ape := user(t, h, "Ape", models.APE)
	stud := user(t, h, "Stud", models.Student)

	demote := models.Student
	if _, err := svc.Update(ctx, admin, admin.ID, models.UserUpdate{Role: &demote}); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("последнего админа понизить нельзя: %v", err)
	}

	promote := models.AER
	if _, err := svc.Update(ctx, ape, stud.ID, models.UserUpdate{Role: &promote}); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("у APE нет change_roles: %v", err)
	}
	u, err := svc.Update(ctx, admin, stud.ID, models.UserUpdate{Role: &promote})
	if err != nil || u.Role != models.AER {
		t.Fatalf("ADMIN меняет роль: %+v, %v", u, err)
	}

	name := "Renamed"
	u, err = svc.Update(ctx, ape, u.ID, models.UserUpdate{FirstName: &name})
	if err != nil || u.FirstName != "Renamed" {
		t.Fatalf("APE переименовывает AER: %+v, %v", u, err)
	}
}

func TestDelete(t *testing.T) {
	h := testdb.MustStart(t)
	ctx := context.Background()
	svc := users.NewService(h.DB, zap.NewNop())
	admin := user(t, h, "Root", models.Admin)
	ape := user(t, h, "Ape", models.APE)
	stud := user(t, h, "Stud", models.Student)

	if err := svc.Delete(ctx, admin, admin.ID); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("себя удалить нельзя: %v", err)
	}
	if err := svc.Delete(ctx, ape, admin.ID); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("APE не удаляет админа: %v", err)
	}
	if err := svc.Delete(ctx, ape, stud.ID); err != nil {
		t.Fatalf("APE удаляет студента: %v", err)
	}
	if _, err := svc.Get(ctx, stud.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound, получили %v", err)
	}
	if err := svc.Delete(ctx, admin, 999999); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound, получили %v", err)
	}
}
