package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// Request модель запроса на создание или перенос записи
type Request struct {
	OfficeID      int64                     // ID офиса
	Date          time.Time                 // Дата приема (без времени)
	TimeSlot      string                    // Слот "HH:MM-HH:MM" (допускается устаревший "HH:MM")
	LeadID        *int64                    // ID лида в Bitrix24: при наличии активной записи она переносится
	DealID        *int64                    // ID сделки (опционально)
	ContactID     *int64                    // ID контакта (опционально)
	CreatedBy     *int64                    // ID пользователя, создающего запись
	InitialStatus *domain.AppointmentStatus // pending или confirmed, по умолчанию confirmed
}

// Response модель ответа с созданной или перенесенной записью
type Response struct {
	ID        int64
	OfficeID  int64
	Date      time.Time
	TimeSlot  string
	Status    string
	LeadID    *int64
	DealID    *int64
	ContactID *int64
	CreatedBy *int64
	CreatedAt time.Time
	UpdatedAt time.Time

	// Rescheduled true, если вместо создания перенесена существующая запись лида
	Rescheduled bool
}

func toResponse(a *domain.Appointment, rescheduled bool) *Response {
	return &Response{
		ID:          a.ID,
		OfficeID:    a.OfficeID,
		Date:        a.Date,
		TimeSlot:    a.TimeSlot,
		Status:      string(a.Status),
		LeadID:      a.LeadID,
		DealID:      a.DealID,
		ContactID:   a.ContactID,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		Rescheduled: rescheduled,
	}
}
