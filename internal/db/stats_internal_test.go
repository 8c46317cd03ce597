package db

import (
	"testing"

	"github.com/Spok95/pool-tracker/internal/models"
)

func TestCompletionRate(t *testing.T) {
	cases := []struct {
		completed, assigned int
		want                float64
	}{
		{0, 0, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := completionRate(tc.completed, tc.assigned); got != tc.want {
			t.Fatalf("completionRate(%d, %d) = %v, ожидали %v", tc.completed, tc.assigned, got, tc.want)
		}
	}
}

func TestSortStats(t *testing.T) {
	xs := []models.QuestStat{
		{Name: "b", CompletionRate: 50},
		{Name: "c", CompletionRate: 90},
		{Name: "a", CompletionRate: 50},
	}
	sortStats(xs)
	got := []string{xs[0].Name, xs[1].Name, xs[2].Name}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("порядок %v, ожидали %v", got, want)
		}
	}
}
