package templates

import (
	"context"
	"errors"
	"fmt"

	officeRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/office"
	templateRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/template"
	"github.com/m04kA/SMC-OfficeScheduler/internal/service/templates/models"
)

// Service сервис для администрирования недельных шаблонов
type Service struct {
	templateRepo TemplateRepository
	officeRepo   OfficeRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса шаблонов
func NewService(templateRepo TemplateRepository, officeRepo OfficeRepository, logger Logger) *Service {
	return &Service{
		templateRepo: templateRepo,
		officeRepo:   officeRepo,
		logger:       logger,
	}
}

// Create создает шаблон
// Если указан офис, проверяет его существование
func (s *Service) Create(ctx context.Context, req *models.TemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("Create: creating template name=%q, office=%v", req.Name, req.OfficeID)

	// 1. Валидируем шаблон
	tpl := req.ToDomain()
	if err := tpl.Validate(); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем офис
	if err := s.checkOffice(ctx, "Create", tpl.OfficeID); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	created, err := s.templateRepo.Create(ctx, tpl)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created template id=%d", created.ID)
	return models.FromDomain(created), nil
}

// GetByID получает шаблон по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.TemplateResponse, error) {
	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			s.logger.Warn("GetByID: template id=%d not found", id)
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("GetByID: repository error for template id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomain(tpl), nil
}

// List возвращает шаблоны офиса вместе с глобальными, без officeID - все шаблоны
func (s *Service) List(ctx context.Context, officeID *int64) (*models.TemplateListResponse, error) {
	list, err := s.templateRepo.List(ctx, officeID)
	if err != nil {
		s.logger.Error("List: repository error for office=%v: %v", officeID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: found %d templates for office=%v", len(list), officeID)
	return models.FromDomainList(list), nil
}

// Update полностью заменяет содержимое шаблона
// Уже примененные расписания не меняются
func (s *Service) Update(ctx context.Context, id int64, req *models.TemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("Update: updating template id=%d", id)

	tpl := req.ToDomain()
	tpl.ID = id
	if err := tpl.Validate(); err != nil {
		s.logger.Warn("Update: validation failed for template id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkOffice(ctx, "Update", tpl.OfficeID); err != nil {
		return nil, err
	}

	updated, err := s.templateRepo.Update(ctx, tpl)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			s.logger.Warn("Update: template id=%d not found", id)
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("Update: repository error for template id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated template id=%d", id)
	return models.FromDomain(updated), nil
}

// Delete удаляет шаблон, материализованные слоты остаются
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.templateRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			s.logger.Warn("Delete: template id=%d not found", id)
			return ErrTemplateNotFound
		}
		s.logger.Error("Delete: repository error for template id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted template id=%d", id)
	return nil
}

func (s *Service) checkOffice(ctx context.Context, op string, officeID *int64) error {
	if officeID == nil {
		return nil
	}

	if _, err := s.officeRepo.GetByID(ctx, *officeID); err != nil {
		if errors.Is(err, officeRepo.ErrOfficeNotFound) {
			s.logger.Warn("%s: office id=%d not found", op, *officeID)
			return ErrOfficeNotFound
		}
		s.logger.Error("%s: failed to get office id=%d: %v", op, *officeID, err)
		return fmt.Errorf("%w: failed to get office: %v", ErrInternal, err)
	}

	return nil
}
