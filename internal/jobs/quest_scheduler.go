package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/models"
	"github.com/Spok95/pool-tracker/internal/notify"
)

const questJobName = "quest_assignment"

type Assigner interface {
	AssignDailyQuests(ctx context.Context) (int, error)
}

type ConfigSource interface {
	Config(ctx context.Context) (models.QuestConfig, error)
}

// QuestScheduler раз в interval сверяет часы с часом выдачи и запускает ежедневную выдачу.
// Срабатывает только в минуту HH:00: если процесс в эту минуту лежал, выдачу за день
// нужно запустить вручную (POST /api/quests/assign или команда assign).
type QuestScheduler struct {
	assigner Assigner
	configs  ConfigSource
	notifier notify.Notifier
	log      *zap.Logger
	loc      *time.Location
	now      func() time.Time
	interval time.Duration
	runOpts  []Option

	mu     sync.Mutex
	runner *Runner
}

type SchedulerOption func(*QuestScheduler)

func WithClock(now func() time.Time) SchedulerOption {
	return func(s *QuestScheduler) { s.now = now }
}

func WithInterval(d time.Duration) SchedulerOption {
	return func(s *QuestScheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithRunnerOptions пробрасывает опции раннеру (например, свой тикер в тестах).
func WithRunnerOptions(opts ...Option) SchedulerOption {
	return func(s *QuestScheduler) { s.runOpts = append(s.runOpts, opts...) }
}

func NewQuestScheduler(a Assigner, c ConfigSource, n notify.Notifier, log *zap.Logger, loc *time.Location, opts ...SchedulerOption) *QuestScheduler {
	if n == nil {
		n = notify.Nop{}
	}
	if loc == nil {
		loc = time.Local
	}
	s := &QuestScheduler{
		assigner: a,
		configs:  c,
		notifier: n,
		log:      log,
		loc:      loc,
		now:      time.Now,
		interval: time.Minute,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start запускает цикл; повторный вызов ничего не делает. Первая проверка — сразу.
func (s *QuestScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runner != nil {
		return
	}
	opts := append([]Option{WithLogger(s.log)}, s.runOpts...)
	s.runner = New(ctx, opts...)
	s.runner.EveryNow(s.interval, questJobName, s.tick)
	schedulerRunning.Set(1)
	s.log.Info("quest scheduler started", zap.Duration("interval", s.interval), zap.String("tz", s.loc.String()))
}

// Stop снимает таймер и не ждёт текущий запуск выдачи.
func (s *QuestScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runner == nil {
		return
	}
	s.runner.Stop()
	s.runner = nil
	schedulerRunning.Set(0)
	s.log.Info("quest scheduler stopped")
}

func (s *QuestScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runner != nil
}

// ShouldAssign — совпадает ли момент с часом выдачи (ровно HH:00).
func ShouldAssign(now time.Time, assignmentHour int) bool {
	return now.Hour() == assignmentHour && now.Minute() == 0
}

func (s *QuestScheduler) tick(ctx context.Context) error {
	cfg, err := s.configs.Config(ctx)
	if err != nil {
		return fmt.Errorf("read quest config: %w", err)
	}
	if !ShouldAssign(s.now().In(s.loc), cfg.AssignmentHour) {
		return nil
	}
	_, err = s.AssignNow(ctx)
	return err
}

// AssignNow — выдача вне расписания (ручной запуск) с отчётом персоналу.
func (s *QuestScheduler) AssignNow(ctx context.Context) (int, error) {
	n, err := s.assigner.AssignDailyQuests(ctx)
	text := fmt.Sprintf("Daily quests assigned: %d new assignment(s) for %s.", n, s.now().In(s.loc).Format(time.DateOnly))
	if err != nil {
		text = "Daily quest assignment failed: " + err.Error()
	}
	if nerr := s.notifier.Notify(ctx, text); nerr != nil {
		s.log.Warn("assignment report not delivered", zap.Error(nerr))
	}
	return n, err
}
