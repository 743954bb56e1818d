package reconcile

import (
	"context"

	"github.com/m04kA/SMC-OfficeScheduler/internal/service/reconciliation"
)

// Reconciler задания сверки записей
type Reconciler interface {
	AutoSyncStatuses(ctx context.Context) (*reconciliation.Result, error)
	AutoExpireAppointments(ctx context.Context) (*reconciliation.Result, error)
	DedupeAppointments(ctx context.Context, dryRun bool) (*reconciliation.Result, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
