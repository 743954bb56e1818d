package apply_template

import "errors"

var (
	// ErrOfficeNotFound возвращается, когда офис не найден
	ErrOfficeNotFound = errors.New("apply_template: office not found")

	// ErrTemplateNotFound возвращается, когда шаблон не найден
	ErrTemplateNotFound = errors.New("apply_template: template not found")

	// ErrInvalidTemplate возвращается, когда шаблон содержит некорректные интервалы
	ErrInvalidTemplate = errors.New("apply_template: invalid template")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("apply_template: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("apply_template: internal error")
)
