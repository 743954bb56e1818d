package manage_slots

import (
	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// UpdateSlotRequest правка слота, хотя бы одно поле обязательно
type UpdateSlotRequest struct {
	Capacity  *int  `json:"capacity,omitempty"`
	Available *bool `json:"available,omitempty"`
}

// UpdateDayRequest открытие или закрытие дня
type UpdateDayRequest struct {
	IsWorkingDay bool `json:"isWorkingDay"`
}

// CreateSlotRequest новый слот в дне
type CreateSlotRequest struct {
	Start    string `json:"start"` // "HH:MM"
	End      string `json:"end"`
	Capacity *int   `json:"capacity,omitempty"` // по умолчанию 1
}

// SlotResponse HTTP response model
type SlotResponse struct {
	ID         int64  `json:"id"`
	ScheduleID int64  `json:"scheduleId"`
	TimeSlot   string `json:"timeSlot"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Capacity   int    `json:"capacity"`
	Available  bool   `json:"available"`
}

// DayResponse HTTP response model
type DayResponse struct {
	ScheduleID   int64  `json:"scheduleId"`
	OfficeID     int64  `json:"officeId"`
	Date         string `json:"date"`
	IsWorkingDay bool   `json:"isWorkingDay"`
	IsCustomized bool   `json:"isCustomized"`
}

// DeleteSlotsResponse HTTP response model
type DeleteSlotsResponse struct {
	Deleted int64 `json:"deleted"`
}

func slotFromDomain(s *domain.Slot) *SlotResponse {
	return &SlotResponse{
		ID:         s.ID,
		ScheduleID: s.ScheduleID,
		TimeSlot:   s.Key(),
		Start:      s.Start.String(),
		End:        s.End.String(),
		Capacity:   s.Capacity,
		Available:  s.Available,
	}
}

func dayFromDomain(s *domain.Schedule) *DayResponse {
	return &DayResponse{
		ScheduleID:   s.ID,
		OfficeID:     s.OfficeID,
		Date:         domain.DateKey(s.Date),
		IsWorkingDay: s.IsWorkingDay,
		IsCustomized: s.IsCustomized,
	}
}
