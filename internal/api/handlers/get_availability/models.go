package get_availability

import (
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// SlotResponse свободный слот
type SlotResponse struct {
	SlotID   int64  `json:"slotId"`
	TimeSlot string `json:"timeSlot"` // "HH:MM-HH:MM", передается при записи
	Start    string `json:"start"`
	End      string `json:"end"`
	Capacity int    `json:"capacity"`
	Free     int    `json:"free"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	OfficeID int64          `json:"officeId"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
}

// FromDomain конвертирует загрузку слотов в HTTP response
func FromDomain(officeID int64, date time.Time, usage []domain.SlotAvailability) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(usage))
	for _, u := range usage {
		slots = append(slots, SlotResponse{
			SlotID:   u.SlotID,
			TimeSlot: u.TimeSlot(),
			Start:    u.Start.String(),
			End:      u.End.String(),
			Capacity: u.Capacity,
			Free:     u.Free,
		})
	}

	return &AvailabilityResponse{
		OfficeID: officeID,
		Date:     domain.DateKey(date),
		Slots:    slots,
	}
}
