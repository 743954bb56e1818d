package templates

import (
	"context"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// TemplateRepository интерфейс репозитория шаблонов
type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.Template) (*domain.Template, error)
	GetByID(ctx context.Context, id int64) (*domain.Template, error)
	List(ctx context.Context, officeID *int64) ([]*domain.Template, error)
	Update(ctx context.Context, tpl *domain.Template) (*domain.Template, error)
	Delete(ctx context.Context, id int64) error
}

// OfficeRepository интерфейс репозитория офисов
type OfficeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Office, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
