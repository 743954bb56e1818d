package run_reconciliation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-OfficeScheduler/internal/service/reconciliation"
)

const (
	msgUnknownJob       = "неизвестное задание, ожидается sync, expire или dedupe"
	msgInvalidDryRun    = "некорректное значение dryRun"
	msgDryRunNotAllowed = "dryRun поддерживается только для dedupe"
	msgCRMNotConfigured = "интеграция с Bitrix24 не настроена"
	msgCRMUnavailable   = "Bitrix24 недоступен"
)

type Handler struct {
	service ReconciliationService
	logger  Logger
}

func NewHandler(service ReconciliationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/reconcile/{job}?dryRun=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	job := mux.Vars(r)["job"]

	dryRun := false
	if raw := r.URL.Query().Get("dryRun"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("POST /admin/reconcile/{job} - Invalid dryRun: %v", raw)
			handlers.RespondBadRequest(w, msgInvalidDryRun)
			return
		}
		dryRun = parsed
	}

	if dryRun && job != reconciliation.JobDedupe {
		handlers.RespondBadRequest(w, msgDryRunNotAllowed)
		return
	}

	var (
		result *reconciliation.Result
		err    error
	)
	switch job {
	case reconciliation.JobSync:
		result, err = h.service.AutoSyncStatuses(r.Context())
	case reconciliation.JobExpire:
		result, err = h.service.AutoExpireAppointments(r.Context())
	case reconciliation.JobDedupe:
		result, err = h.service.DedupeAppointments(r.Context(), dryRun)
	default:
		h.logger.Warn("POST /admin/reconcile/{job} - Unknown job: %s", job)
		handlers.RespondBadRequest(w, msgUnknownJob)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, reconciliation.ErrCRMNotConfigured):
			h.logger.Warn("POST /admin/reconcile/{job} - CRM not configured: job=%s", job)
			handlers.RespondConflict(w, msgCRMNotConfigured)

		case errors.Is(err, reconciliation.ErrCRMUnavailable):
			h.logger.Error("POST /admin/reconcile/{job} - CRM unavailable: job=%s, error=%v", job, err)
			handlers.RespondServiceUnavailable(w, msgCRMUnavailable)

		default:
			h.logger.Error("POST /admin/reconcile/{job} - Job failed: job=%s, error=%v", job, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/reconcile/{job} - Job finished: job=%s, dry_run=%t, inspected=%d, changed=%d",
		job, dryRun, result.Inspected, result.Changed)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResult(job, dryRun, result))
}
