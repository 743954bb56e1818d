package apply_template

import (
	"fmt"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxDays int) error {
	if req.TemplateID <= 0 {
		return fmt.Errorf("%w: templateID must be positive", ErrInvalidInput)
	}

	if req.OfficeID <= 0 {
		return fmt.Errorf("%w: officeID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}

	start := domain.TruncateToDate(req.StartDate)
	end := domain.TruncateToDate(req.EndDate)

	if start.After(end) {
		return fmt.Errorf("%w: start date %s is after end date %s",
			ErrInvalidInput, domain.DateKey(start), domain.DateKey(end))
	}

	// Диапазон включает обе границы: при maxDays = 7 последняя допустимая дата start+6
	if maxDays > 0 && !end.Before(start.AddDate(0, 0, maxDays)) {
		return fmt.Errorf("%w: range %s..%s exceeds limit of %d days",
			ErrInvalidInput, domain.DateKey(start), domain.DateKey(end), maxDays)
	}

	return nil
}
