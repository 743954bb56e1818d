package reconciliation

import "errors"

var (
	// ErrCRMNotConfigured возвращается, если клиент CRM не настроен
	ErrCRMNotConfigured = errors.New("reconciliation: crm client is not configured")

	// ErrCRMUnavailable возвращается, если не удалось получить стадии лидов
	ErrCRMUnavailable = errors.New("reconciliation: crm unavailable")

	// ErrInvalidStatusMap возвращается при неизвестном статусе в таблице стадий
	ErrInvalidStatusMap = errors.New("reconciliation: invalid status map")

	ErrInternal = errors.New("reconciliation: internal error")
)
