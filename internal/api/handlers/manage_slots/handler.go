package manage_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/internal/service/slots"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/types"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidOfficeID    = "некорректный ID офиса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgEmptyUpdate        = "нужно передать capacity или available"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgInvalidDeleteMode  = "нужно передать ровно один из параметров: after, before или пару from и to"
	msgInvalidInput       = "некорректные параметры слота"
	msgSlotNotFound       = "слот не найден"
	msgOfficeNotFound     = "офис не найден"
)

// Handler административные операции со слотами и днями расписания
type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// UpdateSlot PATCH /api/v1/admin/slots/{slotId}
func (h *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		h.logger.Warn("PATCH /admin/slots/{id} - Invalid slot ID: %v", mux.Vars(r)["slotId"])
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/slots/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.Capacity == nil && req.Available == nil {
		handlers.RespondBadRequest(w, msgEmptyUpdate)
		return
	}

	var slot *domain.Slot
	if req.Capacity != nil {
		if slot, err = h.service.SetCapacity(r.Context(), slotID, *req.Capacity); err != nil {
			h.respondError(w, "PATCH /admin/slots/{id}", err)
			return
		}
	}
	if req.Available != nil {
		if slot, err = h.service.SetAvailability(r.Context(), slotID, *req.Available); err != nil {
			h.respondError(w, "PATCH /admin/slots/{id}", err)
			return
		}
	}

	h.logger.Info("PATCH /admin/slots/{id} - Slot updated: slot_id=%d, capacity=%d, available=%t",
		slotID, slot.Capacity, slot.Available)
	handlers.RespondJSON(w, http.StatusOK, slotFromDomain(slot))
}

// UpdateDay PUT /api/v1/admin/offices/{officeId}/days/{date}
func (h *Handler) UpdateDay(w http.ResponseWriter, r *http.Request) {
	officeID, date, ok := h.parseDay(w, r, "PUT /admin/offices/{id}/days/{date}")
	if !ok {
		return
	}

	var req UpdateDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/offices/{id}/days/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var (
		schedule *domain.Schedule
		err      error
	)
	if req.IsWorkingDay {
		schedule, err = h.service.OpenDay(r.Context(), officeID, date)
	} else {
		schedule, err = h.service.CloseDay(r.Context(), officeID, date)
	}
	if err != nil {
		h.respondError(w, "PUT /admin/offices/{id}/days/{date}", err)
		return
	}

	h.logger.Info("PUT /admin/offices/{id}/days/{date} - Day updated: office_id=%d, date=%s, working=%t",
		officeID, domain.DateKey(date), schedule.IsWorkingDay)
	handlers.RespondJSON(w, http.StatusOK, dayFromDomain(schedule))
}

// CreateSlot POST /api/v1/admin/offices/{officeId}/days/{date}/slots
func (h *Handler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	officeID, date, ok := h.parseDay(w, r, "POST /admin/offices/{id}/days/{date}/slots")
	if !ok {
		return
	}

	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/offices/{id}/days/{date}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	start, errStart := types.NewTimeStringFromString(req.Start)
	end, errEnd := types.NewTimeStringFromString(req.End)
	if errStart != nil || errEnd != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	capacity := domain.DefaultSlotCapacity
	if req.Capacity != nil {
		capacity = *req.Capacity
	}

	slot, err := h.service.AddSlot(r.Context(), officeID, date, start, end, capacity)
	if err != nil {
		h.respondError(w, "POST /admin/offices/{id}/days/{date}/slots", err)
		return
	}

	h.logger.Info("POST /admin/offices/{id}/days/{date}/slots - Slot created: slot_id=%d, office_id=%d, date=%s",
		slot.ID, officeID, domain.DateKey(date))
	handlers.RespondJSON(w, http.StatusCreated, slotFromDomain(slot))
}

// DeleteSlots DELETE /api/v1/admin/offices/{officeId}/days/{date}/slots
// Query params: after=HH:MM | before=HH:MM | from=HH:MM&to=HH:MM
func (h *Handler) DeleteSlots(w http.ResponseWriter, r *http.Request) {
	const op = "DELETE /admin/offices/{id}/days/{date}/slots"

	officeID, date, ok := h.parseDay(w, r, op)
	if !ok {
		return
	}

	query := r.URL.Query()
	after, before, from, to := query.Get("after"), query.Get("before"), query.Get("from"), query.Get("to")

	var (
		deleted int64
		err     error
	)
	switch {
	case after != "" && before == "" && from == "" && to == "":
		cutoff, perr := types.NewTimeStringFromString(after)
		if perr != nil {
			handlers.RespondBadRequest(w, msgInvalidTime)
			return
		}
		deleted, err = h.service.TruncateAfter(r.Context(), officeID, date, cutoff)

	case before != "" && after == "" && from == "" && to == "":
		cutoff, perr := types.NewTimeStringFromString(before)
		if perr != nil {
			handlers.RespondBadRequest(w, msgInvalidTime)
			return
		}
		deleted, err = h.service.TruncateBefore(r.Context(), officeID, date, cutoff)

	case from != "" && to != "" && after == "" && before == "":
		fromTime, errFrom := types.NewTimeStringFromString(from)
		toTime, errTo := types.NewTimeStringFromString(to)
		if errFrom != nil || errTo != nil {
			handlers.RespondBadRequest(w, msgInvalidTime)
			return
		}
		deleted, err = h.service.ClearInterval(r.Context(), officeID, date, fromTime, toTime)

	default:
		h.logger.Warn("%s - Ambiguous delete mode: %s", op, r.URL.RawQuery)
		handlers.RespondBadRequest(w, msgInvalidDeleteMode)
		return
	}

	if err != nil {
		h.respondError(w, op, err)
		return
	}

	h.logger.Info("%s - Slots deleted: office_id=%d, date=%s, deleted=%d", op, officeID, domain.DateKey(date), deleted)
	handlers.RespondJSON(w, http.StatusOK, DeleteSlotsResponse{Deleted: deleted})
}

func (h *Handler) parseDay(w http.ResponseWriter, r *http.Request, op string) (int64, time.Time, bool) {
	vars := mux.Vars(r)

	officeID, err := strconv.ParseInt(vars["officeId"], 10, 64)
	if err != nil || officeID <= 0 {
		h.logger.Warn("%s - Invalid office ID: %v", op, vars["officeId"])
		handlers.RespondBadRequest(w, msgInvalidOfficeID)
		return 0, time.Time{}, false
	}

	date, err := domain.ParseDate(vars["date"])
	if err != nil {
		h.logger.Warn("%s - Invalid date: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return 0, time.Time{}, false
	}

	return officeID, date, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, slots.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, slots.ErrSlotNotFound):
		h.logger.Warn("%s - Slot not found", op)
		handlers.RespondNotFound(w, msgSlotNotFound)

	case errors.Is(err, slots.ErrOfficeNotFound):
		h.logger.Warn("%s - Office not found", op)
		handlers.RespondNotFound(w, msgOfficeNotFound)

	default:
		h.logger.Error("%s - Failed: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
