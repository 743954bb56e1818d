package create_appointment

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
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	Update(ctx context.Context, appt *domain.Appointment) error
	FindActiveByLead(ctx context.Context, leadID int64, fromDate time.Time) (*domain.Appointment, error)
	GetByOfficeAndDate(ctx context.Context, officeID int64, date time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error)
	AppendHistory(ctx context.Context, entry *domain.AppointmentHistory) error
}

// CacheInvalidator сбрасывает кэш доступности для пары (офис, дата)
type CacheInvalidator interface {
	Invalidate(ctx context.Context, officeID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик операций с записями
type Metrics interface {
	IncAppointmentOperation(operation, outcome string)
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
