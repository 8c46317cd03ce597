package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/models"
)

type fakeTicker struct{ ch chan time.Time }

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

type fakeAssigner struct {
	mu    sync.Mutex
	calls int
	err   error
	done  chan struct{}
}

func (f *fakeAssigner) AssignDailyQuests(context.Context) (int, error) {
	f.mu.Lock()
	f.calls++
	err := f.err
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
	if err != nil {
		return 0, err
	}
	return 3, nil
}

func (f *fakeAssigner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type staticConfig struct {
	cfg models.QuestConfig
	err error
}

func (s staticConfig) Config(context.Context) (models.QuestConfig, error) { return s.cfg, s.err }

type recordNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordNotifier) Notify(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return nil
}

func paris(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("нет tzdata: %v", err)
	}
	return loc
}

func TestShouldAssign(t *testing.T) {
	loc := paris(t)
	cases := []struct {
		at   time.Time
		hour int
		want bool
	}{
		{time.Date(2026, 3, 2, 10, 0, 0, 0, loc), 10, true},
		{time.Date(2026, 3, 2, 10, 0, 59, 0, loc), 10, true},
		{time.Date(2026, 3, 2, 10, 1, 0, 0, loc), 10, false},
		{time.Date(2026, 3, 2, 9, 59, 0, 0, loc), 10, false},
		{time.Date(2026, 3, 2, 0, 0, 0, 0, loc), 0, true},
		{time.Date(2026, 3, 2, 23, 0, 0, 0, loc), 0, false},
	}
	for _, tc := range cases {
		if got := ShouldAssign(tc.at, tc.hour); got != tc.want {
			t.Errorf("ShouldAssign(%s, %d) = %v, want %v", tc.at.Format(time.TimeOnly), tc.hour, got, tc.want)
		}
	}
}

func TestQuestScheduler_TickUsesLocation(t *testing.T) {
	loc := paris(t)
	// 09:00 UTC зимой = 10:00 в Париже
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	a := &fakeAssigner{}
	n := &recordNotifier{}
	s := NewQuestScheduler(a, staticConfig{cfg: models.DefaultQuestConfig()}, n, zap.NewNop(), loc,
		WithClock(func() time.Time { return now }))

	if err := s.tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if a.Calls() != 1 {
		t.Fatalf("ожидали одну выдачу, было %d", a.Calls())
	}
	if len(n.texts) != 1 {
		t.Fatalf("ожидали отчёт персоналу, получили %v", n.texts)
	}

	now = now.Add(time.Minute)
	if err := s.tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if a.Calls() != 1 {
		t.Fatalf("в 10:01 выдачи быть не должно, было %d", a.Calls())
	}
}

func TestQuestScheduler_TickConfigError(t *testing.T) {
	a := &fakeAssigner{}
	s := NewQuestScheduler(a, staticConfig{err: errors.New("db down")}, nil, zap.NewNop(), time.UTC)
	if err := s.tick(context.Background()); err == nil {
		t.Fatal("ожидали ошибку чтения настроек")
	}
	if a.Calls() != 0 {
		t.Fatal("без настроек выдачи быть не должно")
	}
}

func TestQuestScheduler_AssignNowReportsFailure(t *testing.T) {
	a := &fakeAssigner{err: errors.New("boom")}
	n := &recordNotifier{}
	s := NewQuestScheduler(a, staticConfig{}, n, zap.NewNop(), time.UTC)

	if _, err := s.AssignNow(context.Background()); err == nil {
		t.Fatal("ожидали ошибку выдачи")
	}
	if len(n.texts) != 1 || n.texts[0] != "Daily quest assignment failed: boom" {
		t.Fatalf("неожиданный отчёт: %v", n.texts)
	}
}

func TestQuestScheduler_FailureDoesNotStopLoop(t *testing.T) {
	ft := &fakeTicker{ch: make(chan time.Time)}
	a := &fakeAssigner{err: errors.New("boom"), done: make(chan struct{}, 4)}
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	s := NewQuestScheduler(a, staticConfig{cfg: models.DefaultQuestConfig()}, nil, zap.NewNop(), time.UTC,
		WithClock(func() time.Time { return at }),
		WithRunnerOptions(WithTicker(func(time.Duration) Ticker { return ft })))

	s.Start(context.Background())
	s.Start(context.Background()) // повторный старт ничего не делает
	defer s.Stop()

	wait := func() {
		t.Helper()
		select {
		case <-a.done:
		case <-time.After(2 * time.Second):
			t.Fatal("выдача не запустилась")
		}
	}
	wait() // немедленная проверка при старте
	ft.ch <- at
	wait()
	ft.ch <- at
	wait()

	if a.Calls() != 3 {
		t.Fatalf("ожидали 3 попытки, было %d", a.Calls())
	}
	if !s.Running() {
		t.Fatal("планировщик должен работать после ошибок")
	}
}

func TestQuestScheduler_Stop(t *testing.T) {
	ft := &fakeTicker{ch: make(chan time.Time)}
	s := NewQuestScheduler(&fakeAssigner{}, staticConfig{cfg: models.QuestConfig{AssignmentHour: 3, DurationHours: 24}}, nil, zap.NewNop(), time.UTC,
		WithRunnerOptions(WithTicker(func(time.Duration) Ticker { return ft })))

	s.Start(context.Background())
	if !s.Running() {
		t.Fatal("ожидали запущенный планировщик")
	}
	s.Stop()
	s.Stop()
	if s.Running() {
		t.Fatal("после Stop планировщик не должен работать")
	}
}
