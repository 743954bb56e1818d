package domain

import "time"

// HistoryAction тип изменения записи
type HistoryAction string

const (
	ActionCreated       HistoryAction = "created"
	ActionRescheduled   HistoryAction = "rescheduled"
	ActionStatusChanged HistoryAction = "status_changed"
	ActionUpdated       HistoryAction = "updated"
	ActionSynced        HistoryAction = "synced"
	ActionExpired       HistoryAction = "expired"
	ActionDeduplicated  HistoryAction = "deduplicated"
)

// AppointmentHistory запись журнала изменений
// Журнал только дополняется
type AppointmentHistory struct {
	ID            int64
	AppointmentID int64
	Action        HistoryAction
	FromStatus    *AppointmentStatus
	ToStatus      AppointmentStatus
	Details       string // описание изменений полей, например "date: 2024-06-10 -> 2024-06-11"
	ActorID       *int64 // nil для системных изменений
	CreatedAt     time.Time
}
