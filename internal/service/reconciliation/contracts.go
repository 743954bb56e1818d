package reconciliation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, appt *domain.Appointment) error
	AppendHistory(ctx context.Context, entry *domain.AppointmentHistory) error
}

// LeadStatusProvider источник стадий лидов CRM
type LeadStatusProvider interface {
	GetLeadStatuses(ctx context.Context, leadIDs []int64) (map[int64]string, error)
}

// CacheInvalidator сбрасывает кэш доступности для пары (офис, дата)
type CacheInvalidator interface {
	Invalidate(ctx context.Context, officeID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик исправлений сверки
type Metrics interface {
	AddReconciliationChanges(job string, changed int)
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
