package update_appointment

import (
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	updateAppointment "github.com/m04kA/SMC-OfficeScheduler/internal/usecase/update_appointment"
)

// UpdateAppointmentRequest HTTP request model
// Передаются только изменяемые поля
type UpdateAppointmentRequest struct {
	Status   *string `json:"status,omitempty"`
	Date     *string `json:"date,omitempty"`
	TimeSlot *string `json:"timeSlot,omitempty"`
	OfficeID *int64  `json:"officeId,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID             int64  `json:"id"`
	OfficeID       int64  `json:"officeId"`
	Date           string `json:"date"`
	TimeSlot       string `json:"timeSlot"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previousStatus"`
	LeadID         *int64 `json:"leadId,omitempty"`
	DealID         *int64 `json:"dealId,omitempty"`
	ContactID      *int64 `json:"contactId,omitempty"`
	CreatedBy      *int64 `json:"createdBy,omitempty"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateAppointmentRequest) ToUseCaseRequest(appointmentID, userID int64) (*updateAppointment.Request, error) {
	req := &updateAppointment.Request{
		AppointmentID: appointmentID,
		TimeSlot:      r.TimeSlot,
		OfficeID:      r.OfficeID,
		ActorID:       &userID,
	}

	if r.Date != nil {
		date, err := domain.ParseDate(*r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if r.Status != nil {
		status, err := domain.ParseAppointmentStatus(*r.Status)
		if err != nil {
			return nil, err
		}
		req.Status = &status
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:             resp.ID,
		OfficeID:       resp.OfficeID,
		Date:           domain.DateKey(resp.Date),
		TimeSlot:       resp.TimeSlot,
		Status:         resp.Status,
		PreviousStatus: resp.PreviousStatus,
		LeadID:         resp.LeadID,
		DealID:         resp.DealID,
		ContactID:      resp.ContactID,
		CreatedBy:      resp.CreatedBy,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
