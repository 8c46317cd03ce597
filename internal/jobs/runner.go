package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/ctxutil"
	"github.com/Spok95/pool-tracker/internal/observability"
)

type Job func(ctx context.Context) error

// Ticker — то, что нужно раннеру от time.Ticker; в тестах подменяется.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

func NewStdTicker(d time.Duration) Ticker { return stdTicker{t: time.NewTicker(d)} }

type Runner struct {
	ctx        context.Context
	cancel     context.CancelFunc
	log        *zap.Logger
	newTicker  func(time.Duration) Ticker
	runTimeout time.Duration
	wg         sync.WaitGroup
}

type Option func(*Runner)

func WithTicker(f func(time.Duration) Ticker) Option {
	return func(r *Runner) { r.newTicker = f }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithRunTimeout — предел для одного запуска задачи.
func WithRunTimeout(d time.Duration) Option {
	return func(r *Runner) { r.runTimeout = d }
}

func New(ctx context.Context, opts ...Option) *Runner {
	ctx, cancel := context.WithCancel(ctx)
	r := &Runner{
		ctx:        ctx,
		cancel:     cancel,
		log:        zap.NewNop(),
		newTicker:  NewStdTicker,
		runTimeout: 5 * time.Minute,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Every запускает fn по тикеру до Stop или отмены родительского контекста.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	r.loop(interval, name, fn, false)
}

// EveryNow — как Every, но первый запуск сразу.
func (r *Runner) EveryNow(interval time.Duration, name string, fn Job) {
	r.loop(interval, name, fn, true)
}

func (r *Runner) loop(interval time.Duration, name string, fn Job, now bool) {
	t := r.newTicker(interval)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer t.Stop()
		if now {
			r.run(name, fn)
		}
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C():
				r.run(name, fn)
			}
		}
	}()
}

// Stop останавливает тикеры и сразу возвращается. Уже начатый запуск доработает
// (или откатится) сам: у него свой контекст.
func (r *Runner) Stop() { r.cancel() }

// Wait ждёт выхода всех циклов (после Stop).
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) run(name string, fn Job) {
	if r.ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.ctx), r.runTimeout)
	defer cancel()
	ctx = ctxutil.WithOp(ctx, "job."+name)

	start := time.Now()
	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic in job %s: %v", name, rec)
			}
		}()
		return fn(ctx)
	}()
	jobRuns.WithLabelValues(name).Inc()
	jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		jobErrors.WithLabelValues(name).Inc()
		r.log.Error("job failed", zap.String("job", name), zap.Error(err))
		observability.CaptureCtxErr(ctx, err)
	}
}
