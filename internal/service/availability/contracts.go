package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// OfficeRepository интерфейс репозитория офисов
type OfficeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Office, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetByOfficeAndDate(ctx context.Context, officeID int64, date time.Time) (*domain.Schedule, error)
	ListSlots(ctx context.Context, scheduleID int64, onlyAvailable bool) ([]*domain.Slot, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByOfficeAndDate(ctx context.Context, officeID int64, date time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error)
}

// Cache интерфейс кэша доступности
type Cache interface {
	Get(ctx context.Context, officeID int64, date time.Time) ([]domain.SlotAvailability, bool, error)
	Put(ctx context.Context, officeID int64, date time.Time, slots []domain.SlotAvailability, ttl time.Duration) error
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
