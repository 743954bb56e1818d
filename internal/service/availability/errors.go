package availability

import "errors"

var (
	// ErrOfficeNotFound возвращается, когда офис не найден
	ErrOfficeNotFound = errors.New("availability: office not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("availability: internal error")
)
