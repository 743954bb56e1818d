package run_reconciliation

import (
	"context"

	"github.com/m04kA/SMC-OfficeScheduler/internal/service/reconciliation"
)

type ReconciliationService interface {
	AutoSyncStatuses(ctx context.Context) (*reconciliation.Result, error)
	AutoExpireAppointments(ctx context.Context) (*reconciliation.Result, error)
	DedupeAppointments(ctx context.Context, dryRun bool) (*reconciliation.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
