package apply_template

import (
	"context"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// TemplateRepository интерфейс репозитория шаблонов
type TemplateRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Template, error)
}

// OfficeRepository интерфейс репозитория офисов
type OfficeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Office, error)
}

// ScheduleRepository интерфейс репозитория расписаний и слотов
type ScheduleRepository interface {
	GetOrCreate(ctx context.Context, officeID int64, date time.Time, isWorkingDay bool) (*domain.Schedule, error)
	UpdateState(ctx context.Context, schedule *domain.Schedule) error
	DeleteSlots(ctx context.Context, scheduleID int64) (int64, error)
	CreateSlot(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
}

// CacheInvalidator сбрасывает кэш доступности для пары (офис, дата)
type CacheInvalidator interface {
	Invalidate(ctx context.Context, officeID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
