package run_reconciliation

import (
	"github.com/m04kA/SMC-OfficeScheduler/internal/service/reconciliation"
)

// ReconciliationResponse HTTP response model
type ReconciliationResponse struct {
	Job       string `json:"job"`
	DryRun    bool   `json:"dryRun"`
	Inspected int    `json:"inspected"`
	Changed   int    `json:"changed"`
}

func FromServiceResult(job string, dryRun bool, r *reconciliation.Result) *ReconciliationResponse {
	return &ReconciliationResponse{
		Job:       job,
		DryRun:    dryRun,
		Inspected: r.Inspected,
		Changed:   r.Changed,
	}
}
