package apply_template

import (
	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	applyTemplate "github.com/m04kA/SMC-OfficeScheduler/internal/usecase/apply_template"
)

// ApplyTemplateRequest HTTP request model
type ApplyTemplateRequest struct {
	OfficeID       int64  `json:"officeId"`
	StartDate      string `json:"startDate"` // "2024-06-10"
	EndDate        string `json:"endDate"`   // включительно
	SkipCustomized bool   `json:"skipCustomized"`
}

// ApplyTemplateResponse HTTP response model
type ApplyTemplateResponse struct {
	DaysProcessed     int `json:"daysProcessed"`
	WorkingDays       int `json:"workingDays"`
	SlotsCreated      int `json:"slotsCreated"`
	SkippedCustomized int `json:"skippedCustomized"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ApplyTemplateRequest) ToUseCaseRequest(templateID int64) (*applyTemplate.Request, error) {
	start, err := domain.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}

	end, err := domain.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}

	return &applyTemplate.Request{
		TemplateID:     templateID,
		OfficeID:       r.OfficeID,
		StartDate:      start,
		EndDate:        end,
		SkipCustomized: r.SkipCustomized,
	}, nil
}

func FromUseCaseResponse(resp *applyTemplate.Response) *ApplyTemplateResponse {
	return &ApplyTemplateResponse{
		DaysProcessed:     resp.DaysProcessed,
		WorkingDays:       resp.WorkingDays,
		SlotsCreated:      resp.SlotsCreated,
		SkippedCustomized: resp.SkippedCustomized,
	}
}
