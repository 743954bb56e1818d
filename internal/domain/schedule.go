package domain

import (
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/pkg/types"
)

// Schedule расписание офиса на одну календарную дату
// Пара (OfficeID, Date) уникальна
type Schedule struct {
	ID           int64
	OfficeID     int64
	Date         time.Time
	IsWorkingDay bool

	// Ручные правки после применения шаблона
	IsCustomized bool
	CustomizedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MarkCustomized отмечает расписание как измененное вручную
func (s *Schedule) MarkCustomized(at time.Time) {
	s.IsCustomized = true
	s.CustomizedAt = &at
}

// ClearCustomized сбрасывает отметку ручных правок (при повторном применении шаблона)
func (s *Schedule) ClearCustomized() {
	s.IsCustomized = false
	s.CustomizedAt = nil
}

// Slot временной слот внутри расписания
// Capacity = 0 означает перерыв, запись в такой слот невозможна
type Slot struct {
	ID         int64
	ScheduleID int64
	Start      types.TimeString
	End        types.TimeString
	Capacity   int
	Available  bool
}

// Key возвращает составной ключ слота "HH:MM-HH:MM"
func (s *Slot) Key() string {
	return s.Start.String() + "-" + s.End.String()
}

// OverlapsWith проверяет пересечение слота с полуинтервалом [from, to)
func (s *Slot) OverlapsWith(from, to types.TimeString) bool {
	return s.Start.IsBefore(to) && s.End.IsAfter(from)
}

// SlotAvailability загрузка слота: вместимость, занято, свободно
type SlotAvailability struct {
	SlotID    int64            `json:"id"`
	Start     types.TimeString `json:"start"`
	End       types.TimeString `json:"end"`
	Capacity  int              `json:"capacity"`
	Used      int              `json:"used"`
	Free      int              `json:"free"`
	Available bool             `json:"available"`
}

// IsFull возвращает true, если свободных мест нет
func (s *SlotAvailability) IsFull() bool {
	return s.Free <= 0
}

// TimeSlot возвращает дескриптор слота для записи "HH:MM-HH:MM"
func (s *SlotAvailability) TimeSlot() string {
	return s.Start.String() + "-" + s.End.String()
}
