package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/pkg/types"
)

var (
	// ErrSlotNotBookable возвращается, когда подходящего открытого слота нет или он уже начался
	ErrSlotNotBookable = errors.New("domain: slot is not bookable")

	// ErrSlotFull возвращается, когда в слоте не осталось свободных мест
	ErrSlotFull = errors.New("domain: slot is full")
)

// BuildSlotUsage считает загрузку каждого слота по записям в статусах, занимающих место
//
// Каждая запись учитывается не более чем в одном слоте: для полного дескриптора
// это слот с совпадающими началом и окончанием, для устаревшего "HH:MM" первый
// слот с таким началом. Запись с excludeID не учитывается (используется при переносе).
// Результат упорядочен по началу слота.
func BuildSlotUsage(slots []*Slot, appointments []*Appointment, excludeID int64) []SlotAvailability {
	ordered := append([]*Slot(nil), slots...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.IsBefore(ordered[j].Start)
	})

	used := make(map[int64]int, len(ordered))
	for _, appt := range appointments {
		if appt == nil || !appt.HoldsCapacity() {
			continue
		}
		if excludeID != 0 && appt.ID == excludeID {
			continue
		}

		ref, err := ParseTimeSlot(appt.TimeSlot)
		if err != nil {
			continue
		}

		if slot := findSlot(ordered, ref); slot != nil {
			used[slot.ID]++
		}
	}

	result := make([]SlotAvailability, 0, len(ordered))
	for _, slot := range ordered {
		u := used[slot.ID]
		free := slot.Capacity - u
		if free < 0 {
			free = 0
		}
		result = append(result, SlotAvailability{
			SlotID:    slot.ID,
			Start:     slot.Start,
			End:       slot.End,
			Capacity:  slot.Capacity,
			Used:      u,
			Free:      free,
			Available: slot.Available,
		})
	}

	return result
}

// findSlot ищет слот для дескриптора, точное совпадение имеет приоритет
func findSlot(slots []*Slot, ref TimeSlotRef) *Slot {
	for _, slot := range slots {
		if ref.Matches(slot) {
			return slot
		}
	}
	return nil
}

// FilterBookable оставляет только слоты, доступные для записи
// Убирает слоты без свободных мест, а для сегодняшней даты еще и уже начавшиеся
func FilterBookable(usage []SlotAvailability, date, now time.Time) []SlotAvailability {
	today := IsSameDay(date, now)
	current := types.NewTimeString(now)

	result := make([]SlotAvailability, 0, len(usage))
	for _, u := range usage {
		if u.Free <= 0 {
			continue
		}
		if today && !u.Start.IsAfter(current) {
			continue
		}
		result = append(result, u)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start.IsBefore(result[j].Start)
	})

	return result
}

// FindUsage ищет загрузку слота, к которому относится дескриптор записи
func FindUsage(usage []SlotAvailability, ref TimeSlotRef) (SlotAvailability, bool) {
	for _, u := range usage {
		if !u.Start.Equal(ref.Start) {
			continue
		}
		if ref.IsLegacy() || u.End.Equal(ref.End) {
			return u, true
		}
	}
	return SlotAvailability{}, false
}

// CheckCapacity проверяет, что запись с дескриптором ref поместится в слот
//
// slots должны быть открытыми слотами рабочего дня, appointments - записями
// офиса на дату. Запись excludeID (переносимая) из загрузки исключается.
// Возвращает загрузку найденного слота без учета новой записи.
func CheckCapacity(
	slots []*Slot,
	appointments []*Appointment,
	ref TimeSlotRef,
	excludeID int64,
	date, now time.Time,
) (SlotAvailability, error) {
	usage := BuildSlotUsage(slots, appointments, excludeID)

	u, ok := FindUsage(usage, ref)
	if !ok || !u.Available {
		return SlotAvailability{}, fmt.Errorf("%w: no open slot %s", ErrSlotNotBookable, ref)
	}

	if u.Capacity == 0 {
		return u, fmt.Errorf("%w: slot %s is a break", ErrSlotNotBookable, ref)
	}

	if IsSameDay(date, now) && !u.Start.IsAfter(types.NewTimeString(now)) {
		return u, fmt.Errorf("%w: slot %s has already started", ErrSlotNotBookable, ref)
	}

	if u.Free <= 0 {
		return u, fmt.Errorf("%w: %d/%d taken", ErrSlotFull, u.Used, u.Capacity)
	}

	return u, nil
}
