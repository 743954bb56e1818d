package slots

import "errors"

var (
	// ErrOfficeNotFound возвращается, когда офис не найден
	ErrOfficeNotFound = errors.New("slots: office not found")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slots: slot not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("slots: invalid input data")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("slots: internal error")
)
