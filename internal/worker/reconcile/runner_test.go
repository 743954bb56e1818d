package reconcile

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OfficeScheduler/internal/service/reconciliation"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type countingReconciler struct {
	sync, expire, dedupe atomic.Int32
	dryRun               atomic.Bool
}

func (c *countingReconciler) AutoSyncStatuses(context.Context) (*reconciliation.Result, error) {
	c.sync.Add(1)
	return nil, errors.New("bitrix client: service unavailable")
}

func (c *countingReconciler) AutoExpireAppointments(context.Context) (*reconciliation.Result, error) {
	c.expire.Add(1)
	return &reconciliation.Result{Inspected: 1, Changed: 1}, nil
}

func (c *countingReconciler) DedupeAppointments(_ context.Context, dryRun bool) (*reconciliation.Result, error) {
	c.dedupe.Add(1)
	if dryRun {
		c.dryRun.Store(true)
	}
	return &reconciliation.Result{}, nil
}

func TestRunner_RunsJobsUntilCancelled(t *testing.T) {
	rec := &countingReconciler{}
	runner := NewRunner(rec, Intervals{
		Sync:   5 * time.Millisecond,
		Expire: 5 * time.Millisecond,
	}, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return rec.sync.Load() >= 3 && rec.expire.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancel")
	}

	// Dedupe отключен нулевым интервалом
	assert.Zero(t, rec.dedupe.Load())
}

func TestRunner_DedupeRunsForReal(t *testing.T) {
	rec := &countingReconciler{}
	runner := NewRunner(rec, Intervals{Dedupe: time.Hour}, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	// Первый прогон выполняется сразу при старте
	require.Eventually(t, func() bool { return rec.dedupe.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.False(t, rec.dryRun.Load())
}
