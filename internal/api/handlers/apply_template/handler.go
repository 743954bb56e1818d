package apply_template

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers"
	applyTemplate "github.com/m04kA/SMC-OfficeScheduler/internal/usecase/apply_template"
)

const (
	msgInvalidTemplateID  = "некорректный ID шаблона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange       = "некорректный диапазон дат"
	msgInvalidTemplate    = "шаблон содержит некорректные интервалы"
	msgOfficeNotFound     = "офис не найден"
	msgTemplateNotFound   = "шаблон не найден"
)

type Handler struct {
	useCase ApplyTemplateUseCase
	logger  Logger
}

func NewHandler(useCase ApplyTemplateUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/templates/{templateId}/apply
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	templateID, err := strconv.ParseInt(mux.Vars(r)["templateId"], 10, 64)
	if err != nil || templateID <= 0 {
		h.logger.Warn("POST /admin/templates/{id}/apply - Invalid template ID: %v", mux.Vars(r)["templateId"])
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	var req ApplyTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/templates/{id}/apply - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(templateID)
	if err != nil {
		h.logger.Warn("POST /admin/templates/{id}/apply - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, applyTemplate.ErrInvalidInput):
			h.logger.Warn("POST /admin/templates/{id}/apply - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, applyTemplate.ErrInvalidTemplate):
			h.logger.Warn("POST /admin/templates/{id}/apply - Invalid template: template_id=%d, error=%v", templateID, err)
			handlers.RespondBadRequest(w, msgInvalidTemplate)

		case errors.Is(err, applyTemplate.ErrOfficeNotFound):
			handlers.RespondNotFound(w, msgOfficeNotFound)

		case errors.Is(err, applyTemplate.ErrTemplateNotFound):
			handlers.RespondNotFound(w, msgTemplateNotFound)

		default:
			h.logger.Error("POST /admin/templates/{id}/apply - Failed to apply template: template_id=%d, office_id=%d, error=%v",
				templateID, req.OfficeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/templates/{id}/apply - Template applied: template_id=%d, office_id=%d, days=%d, slots=%d",
		templateID, req.OfficeID, result.DaysProcessed, result.SlotsCreated)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
