package domain

import "time"

// Office офис, в котором проходят приемы
type Office struct {
	ID         int64
	City       string
	Address    string
	ExternalID *int64 // ID офиса в Bitrix24 (опционально)
	CreatedAt  time.Time
}

// HasExternalID проверяет, привязан ли офис к CRM
func (o *Office) HasExternalID() bool {
	return o.ExternalID != nil
}
