package quest

import (
	"strings"
	"testing"
	"time"

	"github.com/Spok95/pool-tracker/internal/models"
)

func TestEvaluate(t *testing.T) {
	assigned := time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)
	base := models.LockedDailyQuest{
		DailyQuest: models.DailyQuest{ID: 1, UserID: 7, ExpiresAt: assigned.Add(24 * time.Hour)},
		QuestName:  "Find the Flag",
		SecretCode: "ABC123",
		Points:     50,
	}

	cases := []struct {
		name      string
		completed bool
		code      string
		at        time.Time
		want      Outcome
		points    int
	}{
		{"correct before expiry", false, "ABC123", assigned.Add(30 * time.Minute), OutcomeCompleted, 50},
		{"case differs", false, "abc123", assigned.Add(30 * time.Minute), OutcomeInvalidCode, 0},
		{"trailing space", false, "ABC123 ", assigned.Add(30 * time.Minute), OutcomeInvalidCode, 0},
		{"exactly at expiry", false, "ABC123", assigned.Add(24 * time.Hour), OutcomeCompleted, 50},
		{"after expiry", false, "ABC123", assigned.Add(24*time.Hour + time.Second), OutcomeExpired, 0},
		{"already completed, correct code", true, "ABC123", assigned.Add(time.Hour), OutcomeAlreadyCompleted, 0},
		{"already completed and expired", true, "nope", assigned.Add(48 * time.Hour), OutcomeAlreadyCompleted, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := base
			a.IsCompleted = tc.completed
			res := evaluate(&a, tc.code, tc.at)
			if res.Outcome != tc.want {
				t.Fatalf("исход %s, ожидали %s", res.Outcome, tc.want)
			}
			if res.PointsAwarded != tc.points {
				t.Fatalf("баллы %d, ожидали %d", res.PointsAwarded, tc.points)
			}
			if res.Success != (tc.want == OutcomeCompleted) {
				t.Fatalf("Success = %v при исходе %s", res.Success, res.Outcome)
			}
		})
	}
}

func TestEvaluate_MessageDoesNotLeakCode(t *testing.T) {
	a := &models.LockedDailyQuest{
		DailyQuest: models.DailyQuest{ExpiresAt: time.Now().Add(time.Hour)},
		SecretCode: "S3CR3T",
		Points:     10,
	}
	for _, code := range []string{"wrong", "S3CR3T"} {
		if res := evaluate(a, code, time.Now()); strings.Contains(res.Message, a.SecretCode) {
			t.Fatalf("сообщение раскрывает код: %q", res.Message)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(OutcomeAlreadyCompleted) || !IsTerminal(OutcomeExpired) {
		t.Fatal("already_completed и expired терминальны")
	}
	if IsTerminal(OutcomeInvalidCode) || IsTerminal(OutcomeCompleted) {
		t.Fatal("invalid_code и completed не терминальные исходы попытки")
	}
}
