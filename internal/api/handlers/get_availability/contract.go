package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

type AvailabilityService interface {
	GetAvailableSlots(ctx context.Context, officeID int64, date time.Time) ([]domain.SlotAvailability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
