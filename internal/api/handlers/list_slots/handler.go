package list_slots

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
	msgInvalidDate     = "некорректный или отсутствующий параметр date, ожидается YYYY-MM-DD"
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

// Handle GET /api/v1/admin/offices/{officeId}/slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	officeID, err := strconv.ParseInt(mux.Vars(r)["officeId"], 10, 64)
	if err != nil || officeID <= 0 {
		h.logger.Warn("GET /admin/offices/{id}/slots - Invalid office ID: %v", mux.Vars(r)["officeId"])
		handlers.RespondBadRequest(w, msgInvalidOfficeID)
		return
	}

	date, err := domain.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /admin/offices/{id}/slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	slots, err := h.service.ListAllSlots(r.Context(), officeID, date)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrOfficeNotFound):
			h.logger.Warn("GET /admin/offices/{id}/slots - Office not found: office_id=%d", officeID)
			handlers.RespondNotFound(w, msgOfficeNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /admin/offices/{id}/slots - Failed to list slots: office_id=%d, error=%v", officeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/offices/{id}/slots - Slots listed: office_id=%d, date=%s, slots_count=%d",
		officeID, domain.DateKey(date), len(slots))
	handlers.RespondJSON(w, http.StatusOK, FromDomain(officeID, date, slots))
}
