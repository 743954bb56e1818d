package models

import (
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// Request модели

// TemplateRequest запрос на создание или полную замену шаблона
// Days: ключ - день недели (0 = воскресенье), в JSON передается строкой "1"
type TemplateRequest struct {
	Name            string                     `json:"name"`
	OfficeID        *int64                     `json:"officeId,omitempty"`        // NULL = глобальный шаблон
	DefaultCapacity *int                       `json:"defaultCapacity,omitempty"` // NULL = 1
	Days            map[int][]domain.TimeRange `json:"days"`
}

// Response модели

// TemplateResponse ответ с данными шаблона
type TemplateResponse struct {
	ID              int64                      `json:"id"`
	Name            string                     `json:"name"`
	OfficeID        *int64                     `json:"officeId,omitempty"`
	DefaultCapacity int                        `json:"defaultCapacity"`
	Days            map[int][]domain.TimeRange `json:"days"`
	CreatedAt       time.Time                  `json:"createdAt"`
	UpdatedAt       time.Time                  `json:"updatedAt"`
}

// TemplateListResponse ответ со списком шаблонов
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// Методы конвертации

// ToDomain конвертирует запрос в domain модель
func (r *TemplateRequest) ToDomain() *domain.Template {
	capacity := domain.DefaultSlotCapacity
	if r.DefaultCapacity != nil {
		capacity = *r.DefaultCapacity
	}

	days := r.Days
	if days == nil {
		days = make(map[int][]domain.TimeRange)
	}

	return &domain.Template{
		Name:            r.Name,
		OfficeID:        r.OfficeID,
		DefaultCapacity: capacity,
		Days:            days,
	}
}

// FromDomain конвертирует domain модель в DTO
func FromDomain(t *domain.Template) *TemplateResponse {
	if t == nil {
		return nil
	}

	return &TemplateResponse{
		ID:              t.ID,
		Name:            t.Name,
		OfficeID:        t.OfficeID,
		DefaultCapacity: t.DefaultCapacity,
		Days:            t.Days,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// FromDomainList конвертирует список шаблонов
func FromDomainList(list []*domain.Template) *TemplateListResponse {
	result := &TemplateListResponse{Templates: make([]TemplateResponse, 0, len(list))}
	for _, t := range list {
		result.Templates = append(result.Templates, *FromDomain(t))
	}
	return result
}
