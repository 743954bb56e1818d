package create_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// validateRequest валидирует входные данные и разбирает дескриптор слота
func validateRequest(req *Request) (domain.TimeSlotRef, error) {
	if req.OfficeID <= 0 {
		return domain.TimeSlotRef{}, fmt.Errorf("%w: officeID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return domain.TimeSlotRef{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.LeadID != nil && *req.LeadID <= 0 {
		return domain.TimeSlotRef{}, fmt.Errorf("%w: leadID must be positive", ErrInvalidInput)
	}

	if req.InitialStatus != nil && !req.InitialStatus.HoldsCapacity() {
		return domain.TimeSlotRef{}, fmt.Errorf("%w: initial status must be pending or confirmed, got %q",
			ErrInvalidInput, *req.InitialStatus)
	}

	ref, err := domain.ParseTimeSlot(req.TimeSlot)
	if err != nil {
		return domain.TimeSlotRef{}, fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	return ref, nil
}

// describeMove описывает перенос для журнала изменений
func describeMove(before, after *domain.Appointment) string {
	return fmt.Sprintf("office: %d -> %d; date: %s -> %s; time_slot: %s -> %s",
		before.OfficeID, after.OfficeID,
		domain.DateKey(before.Date), domain.DateKey(after.Date),
		before.TimeSlot, after.TimeSlot)
}
