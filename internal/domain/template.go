package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается, когда ключ дня недели вне диапазона 0..6
	ErrInvalidWeekday = errors.New("domain: invalid weekday key")

	// ErrInvalidTimeRange возвращается, когда start >= end или время некорректно
	ErrInvalidTimeRange = errors.New("domain: invalid time range")

	// ErrInvalidCapacity возвращается при отрицательной вместимости
	ErrInvalidCapacity = errors.New("domain: invalid capacity")

	// ErrInvalidTemplateName возвращается при пустом или слишком длинном имени шаблона
	ErrInvalidTemplateName = errors.New("domain: invalid template name")
)

// TimeRange интервал приема в шаблоне
type TimeRange struct {
	Start    types.TimeString `json:"start"`
	End      types.TimeString `json:"end"`
	Capacity *int             `json:"capacity,omitempty"` // nil = вместимость шаблона по умолчанию
}

// EffectiveCapacity возвращает вместимость интервала с учетом значения по умолчанию
func (r TimeRange) EffectiveCapacity(defaultCapacity int) int {
	if r.Capacity != nil {
		return *r.Capacity
	}
	return defaultCapacity
}

// Validate проверяет, что интервал корректен: start < end, capacity >= 0
func (r TimeRange) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidTimeRange, err)
	}
	if err := r.End.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidTimeRange, err)
	}
	if !r.Start.IsBefore(r.End) {
		return fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, r.Start, r.End)
	}
	if r.Capacity != nil && (*r.Capacity < 0 || *r.Capacity > MaxSlotCapacity) {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, *r.Capacity)
	}
	return nil
}

// Template недельный шаблон расписания
// Days: день недели (0 = воскресенье) -> упорядоченный список интервалов
type Template struct {
	ID              int64
	Name            string
	OfficeID        *int64 // nil = глобальный шаблон
	DefaultCapacity int
	Days            map[int][]TimeRange
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsGlobal возвращает true для шаблона без привязки к офису
func (t *Template) IsGlobal() bool {
	return t.OfficeID == nil
}

// CapacityOrDefault возвращает вместимость по умолчанию для интервалов без capacity
func (t *Template) CapacityOrDefault() int {
	if t.DefaultCapacity > 0 {
		return t.DefaultCapacity
	}
	return DefaultSlotCapacity
}

// RangesFor возвращает интервалы для дня недели, отсортированные по началу
// Пустой список означает выходной день
func (t *Template) RangesFor(weekday time.Weekday) []TimeRange {
	ranges := append([]TimeRange(nil), t.Days[int(weekday)]...)
	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].Start.IsBefore(ranges[j].Start)
	})
	return ranges
}

// Validate проверяет шаблон целиком до любых записей в хранилище
// Пересечение интервалов внутри дня не проверяется
func (t *Template) Validate() error {
	name := strings.TrimSpace(t.Name)
	if name == "" || len(name) > MaxTemplateName {
		return ErrInvalidTemplateName
	}

	if t.DefaultCapacity < 0 || t.DefaultCapacity > MaxSlotCapacity {
		return fmt.Errorf("%w: default capacity %d", ErrInvalidCapacity, t.DefaultCapacity)
	}

	for weekday, ranges := range t.Days {
		if weekday < MinWeekday || weekday > MaxWeekday {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, weekday)
		}
		for i, r := range ranges {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("weekday %d, range %d: %w", weekday, i, err)
			}
		}
	}

	return nil
}
