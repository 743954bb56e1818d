package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/appointment"
	officeRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/office"
	scheduleRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/schedule"
)

// UseCase use case для создания записи или переноса активной записи лида
type UseCase struct {
	officeRepo      OfficeRepository
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	cache           CacheInvalidator
	metrics         Metrics
	enforceCapacity bool
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// enforceCapacity = false отключает проверку свободных мест в слоте
func NewUseCase(
	officeRepo OfficeRepository,
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	metrics Metrics,
	enforceCapacity bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		officeRepo:      officeRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		cache:           cache,
		metrics:         metrics,
		enforceCapacity: enforceCapacity,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute создает запись или переносит существующую
//
// Если у лида есть подтвержденная запись на сегодня или позже, она переносится
// на новые офис, дату и слот без создания дубликата (Response.Rescheduled = true).
// Проверка мест и запись выполняются в сериализуемой транзакции, строка
// расписания целевого дня блокируется (FOR UPDATE).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: office=%d, date=%s, slot=%s, lead=%v",
		req.OfficeID, domain.DateKey(req.Date), req.TimeSlot, req.LeadID)

	// 1. Валидация входных данных
	ref, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		uc.count("invalid")
		return nil, err
	}

	// 2. Дата не должна быть в прошлом
	now := uc.timeProvider.Now()
	if domain.IsDateInPast(req.Date, now) {
		uc.logger.Warn("CreateAppointment: date %s is in the past", domain.DateKey(req.Date))
		uc.count("invalid")
		return nil, ErrInvalidDate
	}

	// 3. Проверяем офис
	if _, err := uc.officeRepo.GetByID(ctx, req.OfficeID); err != nil {
		if errors.Is(err, officeRepo.ErrOfficeNotFound) {
			uc.logger.Warn("CreateAppointment: office id=%d not found", req.OfficeID)
			uc.count("not_found")
			return nil, ErrOfficeNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get office id=%d: %v", req.OfficeID, err)
		uc.count("error")
		return nil, fmt.Errorf("%w: failed to get office: %v", ErrInternal, err)
	}

	var (
		result   *domain.Appointment
		previous *domain.Appointment
	)

	// 4. Выполняем проверку мест и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Ищем активную запись лида
		if req.LeadID != nil {
			existing, err := uc.appointmentRepo.FindActiveByLead(txCtx, *req.LeadID, now)
			if err != nil && !errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return fmt.Errorf("%w: failed to find lead appointment: %v", ErrInternal, err)
			}
			if existing != nil {
				before := *existing
				previous = &before
			}
		}

		// 4.2. Проверяем свободные места в слоте
		if uc.enforceCapacity {
			var excludeID int64
			if previous != nil {
				excludeID = previous.ID
			}
			if err := uc.checkCapacity(txCtx, req.OfficeID, req.Date, ref, excludeID, now); err != nil {
				return err
			}
		}

		// 4.3. Переносим существующую запись
		if previous != nil {
			moved := *previous
			moved.OfficeID = req.OfficeID
			moved.Date = domain.TruncateToDate(req.Date)
			moved.TimeSlot = ref.String()

			if err := uc.appointmentRepo.Update(txCtx, &moved); err != nil {
				return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
			}

			from := previous.Status
			if err := uc.appointmentRepo.AppendHistory(txCtx, &domain.AppointmentHistory{
				AppointmentID: moved.ID,
				Action:        domain.ActionRescheduled,
				FromStatus:    &from,
				ToStatus:      moved.Status,
				Details:       describeMove(previous, &moved),
				ActorID:       req.CreatedBy,
			}); err != nil {
				return fmt.Errorf("%w: failed to append history: %v", ErrInternal, err)
			}

			result = &moved
			return nil
		}

		// 4.4. Создаем новую запись
		status := domain.StatusConfirmed
		if req.InitialStatus != nil {
			status = *req.InitialStatus
		}

		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			OfficeID:  req.OfficeID,
			Date:      domain.TruncateToDate(req.Date),
			TimeSlot:  ref.String(),
			Status:    status,
			LeadID:    req.LeadID,
			DealID:    req.DealID,
			ContactID: req.ContactID,
			CreatedBy: req.CreatedBy,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		if err := uc.appointmentRepo.AppendHistory(txCtx, &domain.AppointmentHistory{
			AppointmentID: created.ID,
			Action:        domain.ActionCreated,
			ToStatus:      created.Status,
			ActorID:       req.CreatedBy,
		}); err != nil {
			return fmt.Errorf("%w: failed to append history: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, uc.fail(err)
	}

	// 5. Сбрасываем кэш после коммита: новая пара и, при переносе, старая
	uc.invalidate(ctx, result.OfficeID, result.Date)
	if previous != nil && (previous.OfficeID != result.OfficeID || !domain.IsSameDay(previous.Date, result.Date)) {
		uc.invalidate(ctx, previous.OfficeID, previous.Date)
	}

	rescheduled := previous != nil
	if rescheduled {
		uc.logger.Info("CreateAppointment: rescheduled appointment id=%d for lead=%d to office=%d, date=%s, slot=%s",
			result.ID, *req.LeadID, result.OfficeID, domain.DateKey(result.Date), result.TimeSlot)
		uc.count("rescheduled")
	} else {
		uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)
		uc.count("created")
	}

	return toResponse(result, rescheduled), nil
}

// checkCapacity пересчитывает загрузку целевого дня внутри транзакции
func (uc *UseCase) checkCapacity(
	ctx context.Context,
	officeID int64,
	date time.Time,
	ref domain.TimeSlotRef,
	excludeID int64,
	now time.Time,
) error {
	schedule, err := uc.scheduleRepo.GetByOfficeAndDate(ctx, officeID, date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return fmt.Errorf("%w: no schedule for %s", ErrSlotNotAvailable, domain.DateKey(date))
		}
		return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	if !schedule.IsWorkingDay {
		return fmt.Errorf("%w: %s is a day off", ErrSlotNotAvailable, domain.DateKey(date))
	}

	slots, err := uc.scheduleRepo.ListSlots(ctx, schedule.ID, true)
	if err != nil {
		return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	appointments, err := uc.appointmentRepo.GetByOfficeAndDate(ctx, officeID, date, domain.CapacityStatuses)
	if err != nil {
		return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	usage, err := domain.CheckCapacity(slots, appointments, ref, excludeID, date, now)
	switch {
	case errors.Is(err, domain.ErrSlotFull):
		return fmt.Errorf("%w: %v", ErrSlotFull, err)
	case errors.Is(err, domain.ErrSlotNotBookable):
		return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
	case err != nil:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateAppointment: slot %s available, %d/%d taken", ref, usage.Used, usage.Capacity)
	return nil
}

// fail логирует ошибку транзакции и приводит ее к ошибке usecase
func (uc *UseCase) fail(err error) error {
	switch {
	case errors.Is(err, ErrSlotFull):
		uc.logger.Warn("CreateAppointment: %v", err)
		uc.count("conflict")
		return err
	case errors.Is(err, ErrSlotNotAvailable):
		uc.logger.Warn("CreateAppointment: %v", err)
		uc.count("conflict")
		return err
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateAppointment: %v", err)
		uc.count("error")
		return err
	default:
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		uc.count("error")
		return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}
}

func (uc *UseCase) invalidate(ctx context.Context, officeID int64, date time.Time) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, officeID, date); err != nil {
		uc.logger.Warn("CreateAppointment: failed to invalidate cache for office=%d, date=%s: %v",
			officeID, domain.DateKey(date), err)
	}
}

func (uc *UseCase) count(outcome string) {
	if uc.metrics != nil {
		uc.metrics.IncAppointmentOperation("create", outcome)
	}
}
