package list_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

type AvailabilityService interface {
	ListAllSlots(ctx context.Context, officeID int64, date time.Time) ([]domain.SlotAvailability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
