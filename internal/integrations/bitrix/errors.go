package bitrix

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("bitrix client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе Bitrix24
	ErrInvalidResponse = errors.New("bitrix client: invalid response")

	// ErrUnavailable возвращается, если Bitrix24 недоступен или ограничил частоту запросов
	ErrUnavailable = errors.New("bitrix client: service unavailable")
)
