package templates

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда шаблон не найден
	ErrTemplateNotFound = errors.New("template not found")

	// ErrOfficeNotFound возвращается, когда офис шаблона не найден
	ErrOfficeNotFound = errors.New("office not found")

	// ErrInvalidInput возвращается при некорректных данных шаблона
	ErrInvalidInput = errors.New("invalid template data")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("service: internal error")
)
