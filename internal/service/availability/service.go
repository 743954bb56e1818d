package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	officeRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/office"
	scheduleRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/schedule"
)

// Service расчет доступных слотов офиса на дату
type Service struct {
	officeRepo      OfficeRepository
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	cache           Cache
	cacheTTL        time.Duration
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	officeRepo OfficeRepository,
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	cache Cache,
	cacheTTL time.Duration,
	logger Logger,
) *Service {
	return &Service{
		officeRepo:      officeRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		cache:           cache,
		cacheTTL:        cacheTTL,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetAvailableSlots возвращает слоты для записи через кэш
// Ошибки кэша не прерывают запрос: результат считается напрямую
func (s *Service) GetAvailableSlots(ctx context.Context, officeID int64, date time.Time) ([]domain.SlotAvailability, error) {
	if err := validateInput(officeID, date); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, officeID, date)
		if err != nil {
			s.logger.Warn("GetAvailableSlots: cache get failed for office=%d, date=%s: %v",
				officeID, domain.DateKey(date), err)
		} else if found {
			return cached, nil
		}
	}

	slots, err := s.ComputeAvailability(ctx, officeID, date)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, officeID, date, slots, s.cacheTTL); err != nil {
			s.logger.Warn("GetAvailableSlots: cache put failed for office=%d, date=%s: %v",
				officeID, domain.DateKey(date), err)
		}
	}

	return slots, nil
}

// ComputeAvailability считает доступные слоты без кэша
//
// Нет расписания или нерабочий день - пустой список, это не ошибка.
// Слоты без свободных мест не возвращаются, на сегодня не возвращаются
// и слоты, начало которых уже наступило.
func (s *Service) ComputeAvailability(ctx context.Context, officeID int64, date time.Time) ([]domain.SlotAvailability, error) {
	usage, err := s.usage(ctx, "ComputeAvailability", officeID, date)
	if err != nil {
		return nil, err
	}

	result := domain.FilterBookable(usage, date, s.timeProvider.Now())

	s.logger.Info("ComputeAvailability: office=%d, date=%s, total=%d, bookable=%d",
		officeID, domain.DateKey(date), len(usage), len(result))

	return result, nil
}

// ListAllSlots возвращает все активные слоты дня с загрузкой (для админки)
// Заполненные и уже прошедшие слоты не отфильтровываются
func (s *Service) ListAllSlots(ctx context.Context, officeID int64, date time.Time) ([]domain.SlotAvailability, error) {
	return s.usage(ctx, "ListAllSlots", officeID, date)
}

func (s *Service) usage(ctx context.Context, op string, officeID int64, date time.Time) ([]domain.SlotAvailability, error) {
	if err := validateInput(officeID, date); err != nil {
		return nil, err
	}

	// 1. Проверяем существование офиса
	if _, err := s.officeRepo.GetByID(ctx, officeID); err != nil {
		if errors.Is(err, officeRepo.ErrOfficeNotFound) {
			s.logger.Warn("%s: office id=%d not found", op, officeID)
			return nil, ErrOfficeNotFound
		}
		s.logger.Error("%s: failed to get office id=%d: %v", op, officeID, err)
		return nil, fmt.Errorf("%w: failed to get office: %v", ErrInternal, err)
	}

	// 2. Получаем расписание на дату
	schedule, err := s.scheduleRepo.GetByOfficeAndDate(ctx, officeID, date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return []domain.SlotAvailability{}, nil
		}
		s.logger.Error("%s: failed to get schedule office=%d, date=%s: %v", op, officeID, domain.DateKey(date), err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	if !schedule.IsWorkingDay {
		return []domain.SlotAvailability{}, nil
	}

	// 3. Слоты, открытые для записи
	slots, err := s.scheduleRepo.ListSlots(ctx, schedule.ID, true)
	if err != nil {
		s.logger.Error("%s: failed to list slots schedule=%d: %v", op, schedule.ID, err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	if len(slots) == 0 {
		return []domain.SlotAvailability{}, nil
	}

	// 4. Записи, занимающие места
	appointments, err := s.appointmentRepo.GetByOfficeAndDate(ctx, officeID, date, domain.CapacityStatuses)
	if err != nil {
		s.logger.Error("%s: failed to get appointments office=%d, date=%s: %v", op, officeID, domain.DateKey(date), err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 5. Считаем загрузку
	return domain.BuildSlotUsage(slots, appointments, 0), nil
}

func validateInput(officeID int64, date time.Time) error {
	if officeID <= 0 {
		return fmt.Errorf("%w: officeID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}
