package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-OfficeScheduler/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-OfficeScheduler/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRequest     = "некорректная дата (ожидается YYYY-MM-DD) или статус записи"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgOfficeNotFound     = "офис не найден"
	msgInvalidDate        = "дата записи в прошлом"
	msgInvalidTimeSlot    = "некорректный временной слот, ожидается HH:MM-HH:MM"
	msgInvalidInput       = "некорректные данные записи"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgSlotFull           = "в выбранном слоте нет свободных мест"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
// 201 для новой записи, 200 если перенесена существующая запись лида
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrOfficeNotFound):
			h.logger.Warn("POST /appointments - Office not found: office_id=%d", req.OfficeID)
			handlers.RespondNotFound(w, msgOfficeNotFound)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Date in the past: office_id=%d, date=%s", req.OfficeID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: %q", req.TimeSlot)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createAppointment.ErrSlotFull):
			h.logger.Warn("POST /appointments - Slot full: office_id=%d, date=%s, slot=%s", req.OfficeID, req.Date, req.TimeSlot)
			handlers.RespondConflict(w, msgSlotFull)

		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: office_id=%d, date=%s, slot=%s", req.OfficeID, req.Date, req.TimeSlot)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: office_id=%d, user_id=%d, error=%v",
				req.OfficeID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.Rescheduled {
		status = http.StatusOK
	}

	h.logger.Info("POST /appointments - Appointment saved: appointment_id=%d, rescheduled=%t, user_id=%d",
		result.ID, result.Rescheduled, userID)
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
