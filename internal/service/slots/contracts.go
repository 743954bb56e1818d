package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/types"
)

// OfficeRepository интерфейс репозитория офисов
type OfficeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Office, error)
}

// ScheduleRepository интерфейс репозитория расписаний и слотов
type ScheduleRepository interface {
	GetByOfficeAndDate(ctx context.Context, officeID int64, date time.Time) (*domain.Schedule, error)
	GetByID(ctx context.Context, id int64) (*domain.Schedule, error)
	GetOrCreate(ctx context.Context, officeID int64, date time.Time, isWorkingDay bool) (*domain.Schedule, error)
	UpdateState(ctx context.Context, schedule *domain.Schedule) error

	GetSlotByID(ctx context.Context, id int64) (*domain.Slot, error)
	CreateSlot(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	UpdateSlotCapacity(ctx context.Context, id int64, capacity int) error
	UpdateSlotAvailability(ctx context.Context, id int64, available bool) error
	DeleteSlotsStartingFrom(ctx context.Context, scheduleID int64, cutoff types.TimeString) (int64, error)
	DeleteSlotsEndingBy(ctx context.Context, scheduleID int64, cutoff types.TimeString) (int64, error)
	DeleteSlotsOverlapping(ctx context.Context, scheduleID int64, from, to types.TimeString) (int64, error)
}

// CacheInvalidator сбрасывает кэш доступности для пары (офис, дата)
type CacheInvalidator interface {
	Invalidate(ctx context.Context, officeID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
