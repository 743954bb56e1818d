package update_appointment

import (
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// Request модель запроса на изменение записи
// Все поля, кроме AppointmentID, опциональны: меняются только переданные
type Request struct {
	AppointmentID int64
	Status        *domain.AppointmentStatus
	Date          *time.Time
	TimeSlot      *string
	OfficeID      *int64
	ActorID       *int64 // ID пользователя, вносящего изменение
}

// Response модель ответа с измененной записью
type Response struct {
	ID             int64
	OfficeID       int64
	Date           time.Time
	TimeSlot       string
	Status         string
	PreviousStatus string
	LeadID         *int64
	DealID         *int64
	ContactID      *int64
	CreatedBy      *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func toResponse(a *domain.Appointment, previous domain.AppointmentStatus) *Response {
	return &Response{
		ID:             a.ID,
		OfficeID:       a.OfficeID,
		Date:           a.Date,
		TimeSlot:       a.TimeSlot,
		Status:         string(a.Status),
		PreviousStatus: string(previous),
		LeadID:         a.LeadID,
		DealID:         a.DealID,
		ContactID:      a.ContactID,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
