package apply_template

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	officeRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/office"
	templateRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/template"
)

// UseCase use case для применения недельного шаблона к диапазону дат
type UseCase struct {
	templateRepo    TemplateRepository
	officeRepo      OfficeRepository
	scheduleRepo    ScheduleRepository
	txManager       TransactionManager
	cache           CacheInvalidator
	maxApplyDays    int
	defaultCapacity int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// maxApplyDays ограничивает длину диапазона (0 = без ограничений),
// defaultCapacity используется, если у шаблона вместимость по умолчанию не задана
func NewUseCase(
	templateRepo TemplateRepository,
	officeRepo OfficeRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	maxApplyDays int,
	defaultCapacity int,
	logger Logger,
) *UseCase {
	if defaultCapacity <= 0 {
		defaultCapacity = domain.DefaultSlotCapacity
	}

	return &UseCase{
		templateRepo:    templateRepo,
		officeRepo:      officeRepo,
		scheduleRepo:    scheduleRepo,
		txManager:       txManager,
		cache:           cache,
		maxApplyDays:    maxApplyDays,
		defaultCapacity: defaultCapacity,
		logger:          logger,
	}
}

// Execute разворачивает шаблон в расписания и слоты для каждой даты диапазона
//
// Весь диапазон применяется в одной транзакции: ошибка на любой дате
// откатывает все. Для каждой даты существующие слоты удаляются и создаются
// заново по интервалам дня недели; пустой список делает день нерабочим.
// Кэш доступности сбрасывается для каждой затронутой даты после коммита.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ApplyTemplate: template=%d, office=%d, range=%s..%s, skipCustomized=%t",
		req.TemplateID, req.OfficeID, domain.DateKey(req.StartDate), domain.DateKey(req.EndDate), req.SkipCustomized)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxApplyDays); err != nil {
		uc.logger.Warn("ApplyTemplate: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем офис
	if _, err := uc.officeRepo.GetByID(ctx, req.OfficeID); err != nil {
		if errors.Is(err, officeRepo.ErrOfficeNotFound) {
			uc.logger.Warn("ApplyTemplate: office id=%d not found", req.OfficeID)
			return nil, ErrOfficeNotFound
		}
		uc.logger.Error("ApplyTemplate: failed to get office id=%d: %v", req.OfficeID, err)
		return nil, fmt.Errorf("%w: failed to get office: %v", ErrInternal, err)
	}

	// 3. Получаем и проверяем шаблон до любых записей
	tpl, err := uc.templateRepo.GetByID(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			uc.logger.Warn("ApplyTemplate: template id=%d not found", req.TemplateID)
			return nil, ErrTemplateNotFound
		}
		uc.logger.Error("ApplyTemplate: failed to get template id=%d: %v", req.TemplateID, err)
		return nil, fmt.Errorf("%w: failed to get template: %v", ErrInternal, err)
	}

	if err := tpl.Validate(); err != nil {
		uc.logger.Warn("ApplyTemplate: template id=%d is invalid: %v", req.TemplateID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	defaultCapacity := uc.defaultCapacity
	if tpl.DefaultCapacity > 0 {
		defaultCapacity = tpl.DefaultCapacity
	}

	dates := domain.DatesInRange(req.StartDate, req.EndDate)
	resp := &Response{}
	touched := make([]time.Time, 0, len(dates))

	// 4. Применяем шаблон ко всему диапазону в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, date := range dates {
			ranges := tpl.RangesFor(date.Weekday())
			isWorkingDay := len(ranges) > 0

			// 4.1. Получаем или создаем расписание на дату
			schedule, err := uc.scheduleRepo.GetOrCreate(txCtx, req.OfficeID, date, isWorkingDay)
			if err != nil {
				return fmt.Errorf("get schedule for %s: %w", domain.DateKey(date), err)
			}

			resp.DaysProcessed++

			if req.SkipCustomized && schedule.IsCustomized {
				resp.SkippedCustomized++
				continue
			}

			// 4.2. Обновляем флаги: повторное применение снимает отметку ручных правок
			schedule.IsWorkingDay = isWorkingDay
			schedule.ClearCustomized()
			if err := uc.scheduleRepo.UpdateState(txCtx, schedule); err != nil {
				return fmt.Errorf("update schedule for %s: %w", domain.DateKey(date), err)
			}

			// 4.3. Пересоздаем слоты
			if _, err := uc.scheduleRepo.DeleteSlots(txCtx, schedule.ID); err != nil {
				return fmt.Errorf("delete slots for %s: %w", domain.DateKey(date), err)
			}

			for _, r := range ranges {
				_, err := uc.scheduleRepo.CreateSlot(txCtx, &domain.Slot{
					ScheduleID: schedule.ID,
					Start:      r.Start,
					End:        r.End,
					Capacity:   r.EffectiveCapacity(defaultCapacity),
					Available:  true,
				})
				if err != nil {
					return fmt.Errorf("create slot %s-%s for %s: %w", r.Start, r.End, domain.DateKey(date), err)
				}
				resp.SlotsCreated++
			}

			if isWorkingDay {
				resp.WorkingDays++
			}
			touched = append(touched, date)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("ApplyTemplate: failed for template=%d, office=%d: %v", req.TemplateID, req.OfficeID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 5. Сбрасываем кэш доступности после коммита
	for _, date := range touched {
		if uc.cache == nil {
			break
		}
		if err := uc.cache.Invalidate(ctx, req.OfficeID, date); err != nil {
			uc.logger.Warn("ApplyTemplate: failed to invalidate cache for office=%d, date=%s: %v",
				req.OfficeID, domain.DateKey(date), err)
		}
	}

	uc.logger.Info("ApplyTemplate: template=%d applied to office=%d: days=%d, working=%d, slots=%d, skipped=%d",
		req.TemplateID, req.OfficeID, resp.DaysProcessed, resp.WorkingDays, resp.SlotsCreated, resp.SkippedCustomized)

	return resp, nil
}
