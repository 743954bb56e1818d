package domain

// Default configuration values
const (
	DefaultSlotCapacity     = 1
	DefaultMaxApplyDays     = 366
	DefaultCacheTTLSeconds  = 30
	DefaultLeadLookbackDays = 30
	DefaultBitrixBatchSize  = 50
)

// Business validation constants
const (
	MinWeekday      = 0 // воскресенье
	MaxWeekday      = 6 // суббота
	MaxSlotCapacity = 1000
	MaxTemplateName = 255
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CapacityStatuses статусы записей, которые занимают место в слоте
var CapacityStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// OpenStatuses нетерминальные статусы, которые участвуют в сверке с CRM
var OpenStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusRescheduled,
}
