package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/service/reconciliation"
)

// Intervals периоды запуска заданий (0 отключает задание)
type Intervals struct {
	Sync   time.Duration
	Expire time.Duration
	Dedupe time.Duration
}

// Runner периодически запускает задания сверки
type Runner struct {
	reconciler Reconciler
	intervals  Intervals
	logger     Logger
}

// NewRunner создает новый экземпляр Runner
func NewRunner(reconciler Reconciler, intervals Intervals, logger Logger) *Runner {
	return &Runner{
		reconciler: reconciler,
		intervals:  intervals,
		logger:     logger,
	}
}

type job struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) (*reconciliation.Result, error)
}

// Run запускает задания и блокируется до отмены ctx
// Каждое задание выполняется сразу при старте, затем по своему тикеру.
// Прогоны одного задания не пересекаются.
func (r *Runner) Run(ctx context.Context) {
	jobs := []job{
		{name: reconciliation.JobSync, interval: r.intervals.Sync, run: r.reconciler.AutoSyncStatuses},
		{name: reconciliation.JobExpire, interval: r.intervals.Expire, run: r.reconciler.AutoExpireAppointments},
		{name: reconciliation.JobDedupe, interval: r.intervals.Dedupe, run: func(ctx context.Context) (*reconciliation.Result, error) {
			return r.reconciler.DedupeAppointments(ctx, false)
		}},
	}

	var wg sync.WaitGroup
	for _, j := range jobs {
		if j.interval <= 0 {
			r.logger.Info("Reconcile: job %s disabled", j.name)
			continue
		}

		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			r.loop(ctx, j)
		}(j)
	}

	wg.Wait()
	r.logger.Info("Reconcile: runner stopped")
}

func (r *Runner) loop(ctx context.Context, j job) {
	r.logger.Info("Reconcile: job %s started, interval=%s", j.name, j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	r.runOnce(ctx, j)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx, j)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, j job) {
	if ctx.Err() != nil {
		return
	}

	started := time.Now()
	result, err := j.run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Error("Reconcile: job %s failed: %v", j.name, err)
		return
	}

	r.logger.Info("Reconcile: job %s done in %s, inspected=%d, changed=%d",
		j.name, time.Since(started).Round(time.Millisecond), result.Inspected, result.Changed)
}
