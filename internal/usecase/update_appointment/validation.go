package update_appointment

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// validateRequest валидирует входные данные
// Возвращает разобранный дескриптор слота, если он передан
func validateRequest(req *Request) (*domain.TimeSlotRef, error) {
	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.Status != nil && !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}

	if req.OfficeID != nil && *req.OfficeID <= 0 {
		return nil, fmt.Errorf("%w: officeID must be positive", ErrInvalidInput)
	}

	if req.Date != nil && req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date must not be empty", ErrInvalidInput)
	}

	if req.TimeSlot == nil {
		return nil, nil
	}

	ref, err := domain.ParseTimeSlot(*req.TimeSlot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	return &ref, nil
}

// describeChanges описывает изменения полей для журнала
func describeChanges(before, after *domain.Appointment) string {
	changes := make([]string, 0, 4)

	if before.OfficeID != after.OfficeID {
		changes = append(changes, fmt.Sprintf("office: %d -> %d", before.OfficeID, after.OfficeID))
	}
	if !domain.IsSameDay(before.Date, after.Date) {
		changes = append(changes, fmt.Sprintf("date: %s -> %s", domain.DateKey(before.Date), domain.DateKey(after.Date)))
	}
	if before.TimeSlot != after.TimeSlot {
		changes = append(changes, fmt.Sprintf("time_slot: %s -> %s", before.TimeSlot, after.TimeSlot))
	}
	if before.Status != after.Status {
		changes = append(changes, fmt.Sprintf("status: %s -> %s", before.Status, after.Status))
	}

	return strings.Join(changes, "; ")
}

// historyAction выбирает тип записи журнала
func historyAction(before, after *domain.Appointment, moved bool) domain.HistoryAction {
	switch {
	case moved:
		return domain.ActionRescheduled
	case before.Status != after.Status:
		return domain.ActionStatusChanged
	default:
		return domain.ActionUpdated
	}
}
