package manage_templates

import (
	"context"

	"github.com/m04kA/SMC-OfficeScheduler/internal/service/templates/models"
)

type TemplateService interface {
	Create(ctx context.Context, req *models.TemplateRequest) (*models.TemplateResponse, error)
	GetByID(ctx context.Context, id int64) (*models.TemplateResponse, error)
	List(ctx context.Context, officeID *int64) (*models.TemplateListResponse, error)
	Update(ctx context.Context, id int64, req *models.TemplateRequest) (*models.TemplateResponse, error)
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
