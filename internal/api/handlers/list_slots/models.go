package list_slots

import (
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// SlotResponse слот с загрузкой, включая заполненные и уже начавшиеся
type SlotResponse struct {
	SlotID    int64  `json:"slotId"`
	TimeSlot  string `json:"timeSlot"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Capacity  int    `json:"capacity"`
	Used      int    `json:"used"`
	Free      int    `json:"free"`
	Available bool   `json:"available"`
}

// SlotListResponse HTTP response model
type SlotListResponse struct {
	OfficeID int64          `json:"officeId"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
}

func FromDomain(officeID int64, date time.Time, usage []domain.SlotAvailability) *SlotListResponse {
	slots := make([]SlotResponse, 0, len(usage))
	for _, u := range usage {
		slots = append(slots, SlotResponse{
			SlotID:    u.SlotID,
			TimeSlot:  u.TimeSlot(),
			Start:     u.Start.String(),
			End:       u.End.String(),
			Capacity:  u.Capacity,
			Used:      u.Used,
			Free:      u.Free,
			Available: u.Available,
		})
	}

	return &SlotListResponse{OfficeID: officeID, Date: domain.DateKey(date), Slots: slots}
}
