package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/internal/service/availability"
)

const (
	msgInvalidOfficeID = "некорректный ID офиса"
	msgMissingDate     = "дата обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgOfficeNotFound  = "офис не найден"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/offices/{officeId}/availability
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем officeId из URL
	officeID, err := strconv.ParseInt(mux.Vars(r)["officeId"], 10, 64)
	if err != nil || officeID <= 0 {
		h.logger.Warn("GET /offices/{id}/availability - Invalid office ID: %v", mux.Vars(r)["officeId"])
		handlers.RespondBadRequest(w, msgInvalidOfficeID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /offices/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := domain.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /offices/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	slots, err := h.service.GetAvailableSlots(r.Context(), officeID, date)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrOfficeNotFound):
			h.logger.Warn("GET /offices/{id}/availability - Office not found: office_id=%d", officeID)
			handlers.RespondNotFound(w, msgOfficeNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /offices/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /offices/{id}/availability - Failed to get slots: office_id=%d, date=%s, error=%v",
				officeID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /offices/{id}/availability - Slots retrieved: office_id=%d, date=%s, slots_count=%d",
		officeID, dateStr, len(slots))
	handlers.RespondJSON(w, http.StatusOK, FromDomain(officeID, date, slots))
}
