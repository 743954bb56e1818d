package apply_template

import (
	"context"

	applyTemplate "github.com/m04kA/SMC-OfficeScheduler/internal/usecase/apply_template"
)

type ApplyTemplateUseCase interface {
	Execute(ctx context.Context, req *applyTemplate.Request) (*applyTemplate.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
