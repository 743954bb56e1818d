package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidStatus возвращается при неизвестном статусе записи
var ErrInvalidStatus = errors.New("domain: invalid appointment status")

// AppointmentStatus статус записи на прием
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"     // Ожидает подтверждения
	StatusConfirmed   AppointmentStatus = "confirmed"   // Подтверждена
	StatusRescheduled AppointmentStatus = "rescheduled" // Перенесена, требует внимания оператора
	StatusCancelled   AppointmentStatus = "cancelled"   // Отменена
	StatusCompleted   AppointmentStatus = "completed"   // Прием состоялся
	StatusNoShow      AppointmentStatus = "no_show"     // Клиент не пришел
	StatusExpired     AppointmentStatus = "expired"     // Просрочена (автоматически)
)

// transitions допустимые переходы статусов
// pending -> expired и rescheduled -> expired используются только фоновым заданием истечения
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:     {StatusConfirmed, StatusCancelled, StatusRescheduled, StatusExpired},
	StatusConfirmed:   {StatusCancelled, StatusRescheduled, StatusCompleted, StatusNoShow},
	StatusRescheduled: {StatusConfirmed, StatusCancelled, StatusExpired},
	StatusCancelled:   {},
	StatusCompleted:   {},
	StatusNoShow:      {},
	StatusExpired:     {},
}

// ParseAppointmentStatus парсит статус из строки
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// IsValid проверяет, что статус известен
func (s AppointmentStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal возвращает true для статусов без дальнейших переходов
func (s AppointmentStatus) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// HoldsCapacity возвращает true, если запись в этом статусе занимает место в слоте
func (s AppointmentStatus) HoldsCapacity() bool {
	for _, st := range CapacityStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода
// Переход в тот же статус считается допустимым (повторное применение)
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	if s == target {
		return s.IsValid()
	}
	for _, st := range transitions[s] {
		if st == target {
			return true
		}
	}
	return false
}

// ResolveStatusOnMove определяет итоговый статус при изменении записи
//
// Если явно задан статус, используется он.
// Если дата или слот изменились, а статус явно не задан, запись в статусе,
// отличном от confirmed и cancelled, автоматически переводится в rescheduled.
// Подтвержденные и отмененные записи при переносе сохраняют статус.
// Смена только офиса статус не меняет.
func ResolveStatusOnMove(current AppointmentStatus, explicit *AppointmentStatus, dateOrSlotChanged bool) AppointmentStatus {
	if explicit != nil {
		return *explicit
	}
	if !dateOrSlotChanged {
		return current
	}
	if current == StatusConfirmed || current == StatusCancelled {
		return current
	}
	if current.IsTerminal() {
		return current
	}
	return StatusRescheduled
}

// Appointment запись на прием в офис
type Appointment struct {
	ID        int64
	OfficeID  int64
	Date      time.Time
	TimeSlot  string // "HH:MM-HH:MM" или устаревший формат "HH:MM"
	Status    AppointmentStatus
	LeadID    *int64 // ID лида в Bitrix24
	DealID    *int64
	ContactID *int64
	CreatedBy *int64 // ID пользователя, создавшего запись
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HoldsCapacity возвращает true, если запись занимает место в слоте
func (a *Appointment) HoldsCapacity() bool {
	return a.Status.HoldsCapacity()
}

// IsActiveFrom проверяет, что запись подтверждена и дата не раньше указанного дня
// Используется для поиска существующей записи лида при переносе
func (a *Appointment) IsActiveFrom(now time.Time) bool {
	return a.Status == StatusConfirmed && !IsDateInPast(a.Date, now)
}

// AppointmentFilter фильтр для выборки записей
type AppointmentFilter struct {
	OfficeID  *int64
	LeadID    *int64
	StartDate *time.Time
	EndDate   *time.Time
	Statuses  []AppointmentStatus
	OnlyLeads bool // только записи с привязкой к лиду
	Limit     uint64
	Offset    uint64
}

// StatusStrings конвертирует статусы в строки для запросов к БД
func StatusStrings(statuses []AppointmentStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
