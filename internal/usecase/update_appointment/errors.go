package update_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("update_appointment: appointment not found")

	// ErrOfficeNotFound возвращается, когда новый офис не найден
	ErrOfficeNotFound = errors.New("update_appointment: office not found")

	// ErrInvalidDate возвращается при переносе на прошедшую дату
	ErrInvalidDate = errors.New("update_appointment: invalid appointment date")

	// ErrInvalidTimeSlot возвращается при некорректном дескрипторе слота
	ErrInvalidTimeSlot = errors.New("update_appointment: invalid time slot")

	// ErrInvalidTransition возвращается, когда переход статуса запрещен
	ErrInvalidTransition = errors.New("update_appointment: status transition is not allowed")

	// ErrSlotNotAvailable возвращается, когда целевого слота нет, день закрыт или слот уже начался
	ErrSlotNotAvailable = errors.New("update_appointment: slot is not available")

	// ErrSlotFull возвращается, когда все места в целевом слоте заняты
	ErrSlotFull = errors.New("update_appointment: slot is full")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_appointment: internal error")
)
