package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	officeRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/office"
	scheduleRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/types"
)

// Service точечные правки расписания дня: вместимость, закрытие дня, обрезка интервалов
//
// Каждая правка выполняется в транзакции, помечает расписание измененным вручную
// и после коммита сбрасывает кэш доступности для (офис, дата).
type Service struct {
	officeRepo   OfficeRepository
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	cache        CacheInvalidator
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	officeRepo OfficeRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	logger Logger,
) *Service {
	return &Service{
		officeRepo:   officeRepo,
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		cache:        cache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// SetCapacity меняет вместимость слота, 0 превращает слот в перерыв
func (s *Service) SetCapacity(ctx context.Context, slotID int64, capacity int) (*domain.Slot, error) {
	if capacity < 0 || capacity > domain.MaxSlotCapacity {
		return nil, fmt.Errorf("%w: capacity must be between 0 and %d", ErrInvalidInput, domain.MaxSlotCapacity)
	}

	return s.updateSlot(ctx, "SetCapacity", slotID, func(txCtx context.Context, slot *domain.Slot) error {
		if err := s.scheduleRepo.UpdateSlotCapacity(txCtx, slot.ID, capacity); err != nil {
			return err
		}
		slot.Capacity = capacity
		return nil
	})
}

// SetAvailability включает или выключает слот для записи
func (s *Service) SetAvailability(ctx context.Context, slotID int64, available bool) (*domain.Slot, error) {
	return s.updateSlot(ctx, "SetAvailability", slotID, func(txCtx context.Context, slot *domain.Slot) error {
		if err := s.scheduleRepo.UpdateSlotAvailability(txCtx, slot.ID, available); err != nil {
			return err
		}
		slot.Available = available
		return nil
	})
}

// CloseDay делает день нерабочим, создавая расписание при отсутствии
// Слоты не удаляются: нерабочий день скрывает их при расчете доступности
func (s *Service) CloseDay(ctx context.Context, officeID int64, date time.Time) (*domain.Schedule, error) {
	return s.setWorkingDay(ctx, "CloseDay", officeID, date, false)
}

// OpenDay делает день рабочим, создавая расписание при отсутствии
func (s *Service) OpenDay(ctx context.Context, officeID int64, date time.Time) (*domain.Schedule, error) {
	return s.setWorkingDay(ctx, "OpenDay", officeID, date, true)
}

// TruncateAfter удаляет слоты, начинающиеся не раньше cutoff (ранее закрытие)
func (s *Service) TruncateAfter(ctx context.Context, officeID int64, date time.Time, cutoff types.TimeString) (int64, error) {
	if err := cutoff.Validate(); err != nil {
		return 0, fmt.Errorf("%w: cutoff: %v", ErrInvalidInput, err)
	}

	return s.deleteSlots(ctx, "TruncateAfter", officeID, date, func(txCtx context.Context, scheduleID int64) (int64, error) {
		return s.scheduleRepo.DeleteSlotsStartingFrom(txCtx, scheduleID, cutoff)
	})
}

// TruncateBefore удаляет слоты, заканчивающиеся не позже cutoff (позднее открытие)
func (s *Service) TruncateBefore(ctx context.Context, officeID int64, date time.Time, cutoff types.TimeString) (int64, error) {
	if err := cutoff.Validate(); err != nil {
		return 0, fmt.Errorf("%w: cutoff: %v", ErrInvalidInput, err)
	}

	return s.deleteSlots(ctx, "TruncateBefore", officeID, date, func(txCtx context.Context, scheduleID int64) (int64, error) {
		return s.scheduleRepo.DeleteSlotsEndingBy(txCtx, scheduleID, cutoff)
	})
}

// ClearInterval удаляет слоты, полностью или частично попадающие в [from, to)
func (s *Service) ClearInterval(ctx context.Context, officeID int64, date time.Time, from, to types.TimeString) (int64, error) {
	if err := validateRange(from, to); err != nil {
		return 0, err
	}

	return s.deleteSlots(ctx, "ClearInterval", officeID, date, func(txCtx context.Context, scheduleID int64) (int64, error) {
		return s.scheduleRepo.DeleteSlotsOverlapping(txCtx, scheduleID, from, to)
	})
}

// AddSlot добавляет слот в расписание дня
// Если расписания нет, оно создается как рабочий день
func (s *Service) AddSlot(ctx context.Context, officeID int64, date time.Time, start, end types.TimeString, capacity int) (*domain.Slot, error) {
	if err := validateDay(officeID, date); err != nil {
		return nil, err
	}
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	if capacity < 0 || capacity > domain.MaxSlotCapacity {
		return nil, fmt.Errorf("%w: capacity must be between 0 and %d", ErrInvalidInput, domain.MaxSlotCapacity)
	}
	if err := s.checkOffice(ctx, "AddSlot", officeID); err != nil {
		return nil, err
	}

	var created *domain.Slot
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		schedule, err := s.scheduleRepo.GetOrCreate(txCtx, officeID, date, true)
		if err != nil {
			return err
		}

		created, err = s.scheduleRepo.CreateSlot(txCtx, &domain.Slot{
			ScheduleID: schedule.ID,
			Start:      start,
			End:        end,
			Capacity:   capacity,
			Available:  true,
		})
		if err != nil {
			return err
		}

		schedule.MarkCustomized(s.timeProvider.Now())
		return s.scheduleRepo.UpdateState(txCtx, schedule)
	})
	if err != nil {
		s.logger.Error("AddSlot: failed for office=%d, date=%s: %v", officeID, domain.DateKey(date), err)
		return nil, fmt.Errorf("%w: AddSlot - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "AddSlot", officeID, date)

	s.logger.Info("AddSlot: office=%d, date=%s, slot=%s, capacity=%d",
		officeID, domain.DateKey(date), created.Key(), capacity)

	return created, nil
}

// updateSlot общий путь для правок одного слота
func (s *Service) updateSlot(
	ctx context.Context,
	op string,
	slotID int64,
	apply func(txCtx context.Context, slot *domain.Slot) error,
) (*domain.Slot, error) {
	if slotID <= 0 {
		return nil, fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	var (
		slot     *domain.Slot
		schedule *domain.Schedule
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error

		// 1. Блокируем слот и его расписание
		slot, err = s.scheduleRepo.GetSlotByID(txCtx, slotID)
		if err != nil {
			return err
		}

		schedule, err = s.scheduleRepo.GetByID(txCtx, slot.ScheduleID)
		if err != nil {
			return err
		}

		// 2. Применяем изменение
		if err := apply(txCtx, slot); err != nil {
			return err
		}

		// 3. Помечаем расписание измененным вручную
		schedule.MarkCustomized(s.timeProvider.Now())
		return s.scheduleRepo.UpdateState(txCtx, schedule)
	})
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot id=%d not found", op, slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("%s: failed for slot id=%d: %v", op, slotID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.invalidate(ctx, op, schedule.OfficeID, schedule.Date)

	s.logger.Info("%s: slot id=%d updated, office=%d, date=%s, capacity=%d, available=%t",
		op, slot.ID, schedule.OfficeID, domain.DateKey(schedule.Date), slot.Capacity, slot.Available)

	return slot, nil
}

func (s *Service) setWorkingDay(ctx context.Context, op string, officeID int64, date time.Time, working bool) (*domain.Schedule, error) {
	if err := validateDay(officeID, date); err != nil {
		return nil, err
	}
	if err := s.checkOffice(ctx, op, officeID); err != nil {
		return nil, err
	}

	var schedule *domain.Schedule
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		schedule, err = s.scheduleRepo.GetOrCreate(txCtx, officeID, date, working)
		if err != nil {
			return err
		}

		schedule.IsWorkingDay = working
		schedule.MarkCustomized(s.timeProvider.Now())
		return s.scheduleRepo.UpdateState(txCtx, schedule)
	})
	if err != nil {
		s.logger.Error("%s: failed for office=%d, date=%s: %v", op, officeID, domain.DateKey(date), err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.invalidate(ctx, op, officeID, date)

	s.logger.Info("%s: office=%d, date=%s, schedule=%d", op, officeID, domain.DateKey(date), schedule.ID)

	return schedule, nil
}

// deleteSlots общий путь для удаления слотов дня
// Отсутствие расписания не ошибка: удалять нечего
func (s *Service) deleteSlots(
	ctx context.Context,
	op string,
	officeID int64,
	date time.Time,
	remove func(txCtx context.Context, scheduleID int64) (int64, error),
) (int64, error) {
	if err := validateDay(officeID, date); err != nil {
		return 0, err
	}
	if err := s.checkOffice(ctx, op, officeID); err != nil {
		return 0, err
	}

	var deleted int64
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		schedule, err := s.scheduleRepo.GetByOfficeAndDate(txCtx, officeID, date)
		if err != nil {
			return err
		}

		deleted, err = remove(txCtx, schedule.ID)
		if err != nil {
			return err
		}

		schedule.MarkCustomized(s.timeProvider.Now())
		return s.scheduleRepo.UpdateState(txCtx, schedule)
	})
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return 0, nil
		}
		s.logger.Error("%s: failed for office=%d, date=%s: %v", op, officeID, domain.DateKey(date), err)
		return 0, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.invalidate(ctx, op, officeID, date)

	s.logger.Info("%s: office=%d, date=%s, deleted=%d", op, officeID, domain.DateKey(date), deleted)

	return deleted, nil
}

func (s *Service) checkOffice(ctx context.Context, op string, officeID int64) error {
	if _, err := s.officeRepo.GetByID(ctx, officeID); err != nil {
		if errors.Is(err, officeRepo.ErrOfficeNotFound) {
			s.logger.Warn("%s: office id=%d not found", op, officeID)
			return ErrOfficeNotFound
		}
		s.logger.Error("%s: failed to get office id=%d: %v", op, officeID, err)
		return fmt.Errorf("%w: %s - failed to get office: %v", ErrInternal, op, err)
	}
	return nil
}

// invalidate вызывается только после коммита транзакции
func (s *Service) invalidate(ctx context.Context, op string, officeID int64, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, officeID, date); err != nil {
		s.logger.Warn("%s: failed to invalidate cache for office=%d, date=%s: %v",
			op, officeID, domain.DateKey(date), err)
	}
}

func validateDay(officeID int64, date time.Time) error {
	if officeID <= 0 {
		return fmt.Errorf("%w: officeID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

func validateRange(from, to types.TimeString) error {
	if err := from.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidInput, err)
	}
	if err := to.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidInput, err)
	}
	if !from.IsBefore(to) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidInput, from, to)
	}
	return nil
}
