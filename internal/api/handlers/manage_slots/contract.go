package manage_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/types"
)

type SlotService interface {
	SetCapacity(ctx context.Context, slotID int64, capacity int) (*domain.Slot, error)
	SetAvailability(ctx context.Context, slotID int64, available bool) (*domain.Slot, error)
	CloseDay(ctx context.Context, officeID int64, date time.Time) (*domain.Schedule, error)
	OpenDay(ctx context.Context, officeID int64, date time.Time) (*domain.Schedule, error)
	TruncateAfter(ctx context.Context, officeID int64, date time.Time, cutoff types.TimeString) (int64, error)
	TruncateBefore(ctx context.Context, officeID int64, date time.Time, cutoff types.TimeString) (int64, error)
	ClearInterval(ctx context.Context, officeID int64, date time.Time, from, to types.TimeString) (int64, error)
	AddSlot(ctx context.Context, officeID int64, date time.Time, start, end types.TimeString, capacity int) (*domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
