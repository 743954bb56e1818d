package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-OfficeScheduler/pkg/types"
)

// ErrInvalidTimeSlot возвращается при некорректном дескрипторе слота
var ErrInvalidTimeSlot = errors.New("domain: invalid time slot")

// TimeSlotRef разобранный дескриптор слота записи
// End пустой для устаревшего формата "HH:MM": такая запись сопоставляется со слотом только по началу
type TimeSlotRef struct {
	Start types.TimeString
	End   types.TimeString
}

// ParseTimeSlot разбирает "HH:MM-HH:MM" или устаревший "HH:MM"
func ParseTimeSlot(s string) (TimeSlotRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeSlotRef{}, fmt.Errorf("%w: empty", ErrInvalidTimeSlot)
	}

	startPart, endPart, hasEnd := strings.Cut(s, "-")

	start, err := types.NewTimeStringFromString(startPart)
	if err != nil {
		return TimeSlotRef{}, fmt.Errorf("%w: %q: %v", ErrInvalidTimeSlot, s, err)
	}

	if !hasEnd {
		return TimeSlotRef{Start: start}, nil
	}

	end, err := types.NewTimeStringFromString(endPart)
	if err != nil {
		return TimeSlotRef{}, fmt.Errorf("%w: %q: %v", ErrInvalidTimeSlot, s, err)
	}
	if !start.IsBefore(end) {
		return TimeSlotRef{}, fmt.Errorf("%w: %q: start must be before end", ErrInvalidTimeSlot, s)
	}

	return TimeSlotRef{Start: start, End: end}, nil
}

// IsLegacy возвращает true для дескриптора без времени окончания
func (r TimeSlotRef) IsLegacy() bool {
	return r.End.IsZero()
}

// Matches проверяет, относится ли дескриптор к слоту
func (r TimeSlotRef) Matches(slot *Slot) bool {
	if !r.Start.Equal(slot.Start) {
		return false
	}
	return r.IsLegacy() || r.End.Equal(slot.End)
}

// SameSlot проверяет, указывают ли два дескриптора на один слот
// Окончание сравнивается, только если оно есть у обоих
func (r TimeSlotRef) SameSlot(other TimeSlotRef) bool {
	if !r.Start.Equal(other.Start) {
		return false
	}
	return r.IsLegacy() || other.IsLegacy() || r.End.Equal(other.End)
}

// String возвращает каноническое представление дескриптора
func (r TimeSlotRef) String() string {
	if r.IsLegacy() {
		return r.Start.String()
	}
	return r.Start.String() + "-" + r.End.String()
}
