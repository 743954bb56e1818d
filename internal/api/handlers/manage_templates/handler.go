package manage_templates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-OfficeScheduler/internal/service/templates"
	"github.com/m04kA/SMC-OfficeScheduler/internal/service/templates/models"
)

const (
	msgInvalidTemplateID  = "некорректный ID шаблона"
	msgInvalidOfficeID    = "некорректный ID офиса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные шаблона"
	msgTemplateNotFound   = "шаблон не найден"
	msgOfficeNotFound     = "офис не найден"
)

// Handler CRUD шаблонов недельного расписания
type Handler struct {
	service TemplateService
	logger  Logger
}

func NewHandler(service TemplateService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/admin/templates
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.TemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/templates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /admin/templates", err)
		return
	}

	h.logger.Info("POST /admin/templates - Template created: template_id=%d, office_id=%v", result.ID, result.OfficeID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// List GET /api/v1/admin/templates?officeId=
// Без officeId возвращаются все шаблоны, с officeId - шаблоны офиса и глобальные
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var officeID *int64
	if raw := r.URL.Query().Get("officeId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.logger.Warn("GET /admin/templates - Invalid office ID: %v", raw)
			handlers.RespondBadRequest(w, msgInvalidOfficeID)
			return
		}
		officeID = &id
	}

	result, err := h.service.List(r.Context(), officeID)
	if err != nil {
		h.respondError(w, "GET /admin/templates", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/admin/templates/{templateId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	templateID, ok := h.templateID(w, r, "GET /admin/templates/{id}")
	if !ok {
		return
	}

	result, err := h.service.GetByID(r.Context(), templateID)
	if err != nil {
		h.respondError(w, "GET /admin/templates/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Update PUT /api/v1/admin/templates/{templateId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	templateID, ok := h.templateID(w, r, "PUT /admin/templates/{id}")
	if !ok {
		return
	}

	var req models.TemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/templates/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), templateID, &req)
	if err != nil {
		h.respondError(w, "PUT /admin/templates/{id}", err)
		return
	}

	h.logger.Info("PUT /admin/templates/{id} - Template updated: template_id=%d", templateID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /api/v1/admin/templates/{templateId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	templateID, ok := h.templateID(w, r, "DELETE /admin/templates/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), templateID); err != nil {
		h.respondError(w, "DELETE /admin/templates/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/templates/{id} - Template deleted: template_id=%d", templateID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) templateID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	raw := mux.Vars(r)["templateId"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("%s - Invalid template ID: %v", op, raw)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, templates.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	case errors.Is(err, templates.ErrTemplateNotFound):
		h.logger.Warn("%s - Template not found", op)
		handlers.RespondNotFound(w, msgTemplateNotFound)

	case errors.Is(err, templates.ErrOfficeNotFound):
		h.logger.Warn("%s - Office not found", op)
		handlers.RespondNotFound(w, msgOfficeNotFound)

	default:
		h.logger.Error("%s - Failed: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
