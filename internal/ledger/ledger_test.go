//go:build testutil
// +build testutil

package ledger_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/db"
	"github.com/Spok95/pool-tracker/internal/ledger"
	"github.com/Spok95/pool-tracker/internal/models"
	"github.com/Spok95/pool-tracker/internal/testutil/testdb"
)

func TestLedger(t *testing.T) {
	h := testdb.MustStart(t)
	ctx := context.Background()
	svc := ledger.NewService(h.DB, zap.NewNop())

	staffID := testdb.SeedUser(t, h.DB, "Sam", models.AER)
	staff, err := db.GetUserByID(ctx, h.DB, staffID)
	if err != nil {
		t.Fatal(err)
	}
	ann := testdb.SeedUser(t, h.DB, "Ann", models.Student)
	bob := testdb.SeedUser(t, h.DB, "Bob", models.Student)

	e, err := svc.Add(ctx, staff, models.NewPoints{UserID: ann, Value: 25, Reason: "  Helped a peer "})
	if err != nil {
		t.Fatal(err)
	}
	if e.ActorKind != models.ActorUser || e.ActorID == nil || *e.ActorID != staffID || e.Reason != "Helped a peer" {
		t.Fatalf("неожиданная запись: %+v", e)
	}
	if _, err := svc.Add(ctx, staff, models.NewPoints{UserID: ann, Value: -5, Reason: "late"}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertPoints(ctx, h.DB, bob, 50, "Quest completed: Q", models.SystemActor); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Add(ctx, staff, models.NewPoints{UserID: ann, Value: 0}); !models.IsValidation(err) {
		t.Fatalf("нулевое начисление: %v", err)
	}
	if _, err := svc.Add(ctx, staff, models.NewPoints{UserID: staffID, Value: 5}); !models.IsValidation(err) {
		t.Fatalf("баллы сотруднику: %v", err)
	}

	total, err := svc.Total(ctx, ann)
	if err != nil || total != 20 {
		t.Fatalf("Total = %d, %v", total, err)
	}

	hist, err := svc.History(ctx, ann)
	if err != nil || len(hist) != 2 {
		t.Fatalf("History: %+v, %v", hist, err)
	}
	if hist[0].Value != -5 || hist[0].ActorName != "Sam Test" {
		t.Fatalf("свежая запись сверху с именем автора: %+v", hist[0])
	}

	bobHist, err := svc.History(ctx, bob)
	if err != nil || bobHist[0].ActorName != models.SystemActorName || bobHist[0].ActorID != nil {
		t.Fatalf("системное начисление: %+v, %v", bobHist, err)
	}

	sum, err := svc.Summary(ctx)
	if err != nil || len(sum) != 2 || sum[0].UserID != bob || sum[1].Total != 20 {
		t.Fatalf("Summary: %+v, %v", sum, err)
	}

	snap, err := svc.Snapshot(ctx)
	if err != nil || len(snap.History) != 3 || len(snap.Leaderboard) != 2 {
		t.Fatalf("Snapshot: %+v, %v", snap, err)
	}
}
