package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	createAppointment "github.com/m04kA/SMC-OfficeScheduler/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	OfficeID  int64   `json:"officeId"`
	Date      string  `json:"date"`     // "2024-06-10"
	TimeSlot  string  `json:"timeSlot"` // "09:00-09:30"
	LeadID    *int64  `json:"leadId,omitempty"`
	DealID    *int64  `json:"dealId,omitempty"`
	ContactID *int64  `json:"contactId,omitempty"`
	Status    *string `json:"status,omitempty"` // pending | confirmed, по умолчанию confirmed
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID          int64  `json:"id"`
	OfficeID    int64  `json:"officeId"`
	Date        string `json:"date"`
	TimeSlot    string `json:"timeSlot"`
	Status      string `json:"status"`
	LeadID      *int64 `json:"leadId,omitempty"`
	DealID      *int64 `json:"dealId,omitempty"`
	ContactID   *int64 `json:"contactId,omitempty"`
	CreatedBy   *int64 `json:"createdBy,omitempty"`
	Rescheduled bool   `json:"rescheduled"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64) (*createAppointment.Request, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	var status *domain.AppointmentStatus
	if r.Status != nil {
		parsed, err := domain.ParseAppointmentStatus(*r.Status)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}

	return &createAppointment.Request{
		OfficeID:      r.OfficeID,
		Date:          date,
		TimeSlot:      r.TimeSlot,
		LeadID:        r.LeadID,
		DealID:        r.DealID,
		ContactID:     r.ContactID,
		CreatedBy:     &userID,
		InitialStatus: status,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          resp.ID,
		OfficeID:    resp.OfficeID,
		Date:        domain.DateKey(resp.Date),
		TimeSlot:    resp.TimeSlot,
		Status:      resp.Status,
		LeadID:      resp.LeadID,
		DealID:      resp.DealID,
		ContactID:   resp.ContactID,
		CreatedBy:   resp.CreatedBy,
		Rescheduled: resp.Rescheduled,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
