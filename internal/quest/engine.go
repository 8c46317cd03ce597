package quest

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/ctxutil"
	"github.com/Spok95/pool-tracker/internal/db"
	"github.com/Spok95/pool-tracker/internal/metrics"
	"github.com/Spok95/pool-tracker/internal/models"
)

// Engine — выдача ежедневных квестов и приём кодов.
// Вся координация между запросами делается транзакциями БД, внутри процесса блокировок нет.
type Engine struct {
	db   *sql.DB
	log  *zap.Logger
	loc  *time.Location
	now  func() time.Time
	pick func(n int) int
}

type Option func(*Engine)

// WithClock подменяет часы (тесты).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithPicker подменяет выбор случайного квеста: pick(n) возвращает индекс в [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(e *Engine) { e.pick = pick }
}

func NewEngine(database *sql.DB, log *zap.Logger, loc *time.Location, opts ...Option) *Engine {
	if loc == nil {
		loc = time.Local
	}
	e := &Engine{
		db:   database,
		log:  log,
		loc:  loc,
		now:  time.Now,
		pick: rand.IntN,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Today — текущая календарная дата в часовом поясе кампуса.
func (e *Engine) Today() string { return e.now().In(e.loc).Format(time.DateOnly) }

// AssignDailyQuests выдаёт каждому студенту по одному случайному активному квесту на сегодня.
// Всё в одной транзакции: либо все новые выдачи, либо ни одной. Повторный вызов в тот же день
// существующие выдачи не трогает. Без активных квестов — no-op.
func (e *Engine) AssignDailyQuests(ctx context.Context) (int, error) {
	ctx = ctxutil.WithOp(ctx, "quest.assign_daily")

	tx, err := e.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	quests, err := db.ActiveQuestIDs(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("active quests: %w", err)
	}
	if len(quests) == 0 {
		e.log.Info("no active quests, daily assignment skipped")
		return 0, nil
	}

	students, err := db.StudentIDs(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("students: %w", err)
	}
	cfg, err := db.GetQuestConfig(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("quest config: %w", err)
	}

	now := e.now().In(e.loc)
	day := now.Format(time.DateOnly)
	expiresAt := now.Add(cfg.Duration())

	created := 0
	for _, sid := range students {
		qid := quests[e.pick(len(quests))]
		ok, err := db.InsertDailyQuest(ctx, tx, sid, qid, day, expiresAt)
		if err != nil {
			return 0, err
		}
		if ok {
			created++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit daily assignment: %w", err)
	}

	metrics.QuestAssignments.Add(float64(created))
	e.log.Info("daily quests assigned",
		zap.String("day", day),
		zap.Int("students", len(students)),
		zap.Int("created", created),
		zap.Time("expires_at", expiresAt))
	return created, nil
}

// DailyQuest — выдача студента на сегодня, без секретного кода.
func (e *Engine) DailyQuest(ctx context.Context, studentID int64) (*models.DailyQuestView, error) {
	return e.DailyQuestOn(ctx, studentID, e.Today())
}

// DailyQuestOn — то же, для произвольной даты YYYY-MM-DD.
func (e *Engine) DailyQuestOn(ctx context.Context, studentID int64, day string) (*models.DailyQuestView, error) {
	if _, err := time.Parse(time.DateOnly, day); err != nil {
		return nil, models.NewValidationError("date", "must be YYYY-MM-DD")
	}
	return db.DailyQuestForUser(ctx, e.db, studentID, day)
}

// Submit проверяет код по выдаче. Чужая или несуществующая выдача — models.ErrNotFound.
// Любая попытка, включая попытки после выполнения или истечения срока, оставляет ровно одну
// аудит-запись. Бизнес-исходы (неверный код, уже выполнено, истекло) возвращаются в Result, не ошибкой.
func (e *Engine) Submit(ctx context.Context, assignmentID, studentID int64, code string) (Result, error) {
	ctx = ctxutil.WithOp(ctx, "quest.submit")

	tx, err := e.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// строка выдачи блокируется до конца транзакции: параллельная отправка дождётся
	// коммита и увидит is_completed = true
	a, err := db.LockDailyQuest(ctx, tx, assignmentID)
	if err != nil {
		return Result{}, err
	}
	if a.UserID != studentID {
		return Result{}, fmt.Errorf("daily quest %d: %w", assignmentID, models.ErrNotFound)
	}

	now := e.now()
	res := evaluate(a, code, now)

	if err := db.InsertSubmission(ctx, tx, a.ID, studentID, code, res.Success, now); err != nil {
		return Result{}, err
	}
	if res.Success {
		if err := db.CompleteDailyQuest(ctx, tx, a.ID, now); err != nil {
			return Result{}, err
		}
		if _, err := db.InsertPoints(ctx, tx, studentID, a.Points, "Quest completed: "+a.QuestName, models.SystemActor); err != nil {
			return Result{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit submission: %w", err)
	}

	metrics.QuestSubmissions.WithLabelValues(string(res.Outcome)).Inc()
	if res.Success {
		metrics.PointEntries.WithLabelValues(string(models.ActorSystem)).Inc()
	}
	e.log.Info("quest code submitted",
		zap.Int64("daily_quest_id", a.ID),
		zap.Int64("user_id", studentID),
		zap.String("outcome", string(res.Outcome)))
	return res, nil
}

// evaluate — переходы одной выдачи. COMPLETED терминально, код уже не сравнивается.
func evaluate(a *models.LockedDailyQuest, code string, now time.Time) Result {
	switch {
	case a.IsCompleted:
		return Result{Outcome: OutcomeAlreadyCompleted, Message: "Quest already completed"}
	case now.After(a.ExpiresAt):
		return Result{Outcome: OutcomeExpired, Message: "Quest has expired"}
	case code == a.SecretCode:
		return Result{
			Outcome:       OutcomeCompleted,
			Success:       true,
			Message:       fmt.Sprintf("Quest completed! You earned %d points!", a.Points),
			PointsAwarded: a.Points,
		}
	default:
		return Result{Outcome: OutcomeInvalidCode, Message: "Invalid code. Try again!"}
	}
}

// Statistics — сводка по квестам на сегодня.
func (e *Engine) Statistics(ctx context.Context) (*models.QuestStatistics, error) {
	return db.QuestStatistics(ctx, e.db, e.Today())
}

// Config — текущие настройки выдачи.
func (e *Engine) Config(ctx context.Context) (models.QuestConfig, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	return db.GetQuestConfig(ctx, e.db)
}

// UpdateConfig проверяет значения до записи; при ошибке валидации БД не трогается.
func (e *Engine) UpdateConfig(ctx context.Context, c models.QuestConfig) (models.QuestConfig, error) {
	if err := c.Validate(); err != nil {
		return models.QuestConfig{}, err
	}
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	out, err := db.UpsertQuestConfig(ctx, e.db, c)
	if err != nil {
		return models.QuestConfig{}, err
	}
	e.log.Info("quest config updated",
		zap.Int("assignment_hour", out.AssignmentHour),
		zap.Int("duration_hours", out.DurationHours))
	return out, nil
}

// IsTerminal — исход, после которого повторять попытку бессмысленно.
func IsTerminal(o Outcome) bool {
	return o == OutcomeAlreadyCompleted || o == OutcomeExpired
}
