package update_appointment

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

// UseCase use case для смены статуса, даты, слота или офиса записи
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

// Execute применяет изменения к записи
//
// При переносе без явного статуса итоговый статус определяет
// domain.ResolveStatusOnMove. Явный статус проверяется по таблице переходов.
// Если итоговый статус занимает место, а запись переезжает или возвращается
// в пул активных, места в целевом слоте проверяются заново.
// Кэш сбрасывается для старой и новой пары (офис, дата).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateAppointment: id=%d, status=%v, date=%v, slot=%v, office=%v",
		req.AppointmentID, req.Status, req.Date, req.TimeSlot, req.OfficeID)

	// 1. Валидация входных данных
	ref, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("UpdateAppointment: validation failed: %v", err)
		uc.count("invalid")
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Если меняется офис, проверяем его существование
	if req.OfficeID != nil {
		if _, err := uc.officeRepo.GetByID(ctx, *req.OfficeID); err != nil {
			if errors.Is(err, officeRepo.ErrOfficeNotFound) {
				uc.logger.Warn("UpdateAppointment: office id=%d not found", *req.OfficeID)
				uc.count("not_found")
				return nil, ErrOfficeNotFound
			}
			uc.logger.Error("UpdateAppointment: failed to get office id=%d: %v", *req.OfficeID, err)
			uc.count("error")
			return nil, fmt.Errorf("%w: failed to get office: %v", ErrInternal, err)
		}
	}

	var before, after domain.Appointment

	// 3. Изменяем запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем запись
		current, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		before = *current
		after = *current

		// 3.2. Применяем переданные поля
		if req.OfficeID != nil {
			after.OfficeID = *req.OfficeID
		}
		if req.Date != nil {
			after.Date = domain.TruncateToDate(*req.Date)
		}
		slotChanged := false
		if ref != nil {
			slotChanged = timeSlotChanged(before.TimeSlot, *ref)
			if slotChanged {
				after.TimeSlot = ref.String()
			}
		}

		dateOrSlotChanged := !domain.IsSameDay(after.Date, before.Date) || slotChanged
		moved := after.OfficeID != before.OfficeID || dateOrSlotChanged

		if moved && req.Date != nil && domain.IsDateInPast(after.Date, now) {
			return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, domain.DateKey(after.Date))
		}

		// 3.3. Определяем итоговый статус
		after.Status = domain.ResolveStatusOnMove(before.Status, req.Status, dateOrSlotChanged)
		if !before.Status.CanTransitionTo(after.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, before.Status, after.Status)
		}

		// 3.4. Проверяем места, если запись занимает новое место
		if uc.enforceCapacity && after.Status.HoldsCapacity() && (moved || !before.Status.HoldsCapacity()) {
			slotRef, err := domain.ParseTimeSlot(after.TimeSlot)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
			}
			if err := uc.checkCapacity(txCtx, &after, slotRef, now); err != nil {
				return err
			}
		}

		if !moved && before.Status == after.Status {
			return nil
		}

		// 3.5. Сохраняем и пишем журнал
		if err := uc.appointmentRepo.Update(txCtx, &after); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		from := before.Status
		if err := uc.appointmentRepo.AppendHistory(txCtx, &domain.AppointmentHistory{
			AppointmentID: after.ID,
			Action:        historyAction(&before, &after, moved),
			FromStatus:    &from,
			ToStatus:      after.Status,
			Details:       describeChanges(&before, &after),
			ActorID:       req.ActorID,
		}); err != nil {
			return fmt.Errorf("%w: failed to append history: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, uc.fail(req.AppointmentID, err)
	}

	// 4. Сбрасываем кэш для старой и новой пары после коммита
	uc.invalidate(ctx, before.OfficeID, before.Date)
	if after.OfficeID != before.OfficeID || !domain.IsSameDay(after.Date, before.Date) {
		uc.invalidate(ctx, after.OfficeID, after.Date)
	}

	uc.logger.Info("UpdateAppointment: appointment id=%d updated: %s", after.ID, describeChanges(&before, &after))
	uc.count("updated")

	return toResponse(&after, before.Status), nil
}

// timeSlotChanged сравнивает сохраненный слот с новым по разобранным дескрипторам
func timeSlotChanged(stored string, next domain.TimeSlotRef) bool {
	current, err := domain.ParseTimeSlot(stored)
	if err != nil {
		return stored != next.String()
	}
	return !current.SameSlot(next)
}

// checkCapacity пересчитывает загрузку целевого дня, не учитывая саму запись
func (uc *UseCase) checkCapacity(ctx context.Context, appt *domain.Appointment, ref domain.TimeSlotRef, now time.Time) error {
	schedule, err := uc.scheduleRepo.GetByOfficeAndDate(ctx, appt.OfficeID, appt.Date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return fmt.Errorf("%w: no schedule for %s", ErrSlotNotAvailable, domain.DateKey(appt.Date))
		}
		return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	if !schedule.IsWorkingDay {
		return fmt.Errorf("%w: %s is a day off", ErrSlotNotAvailable, domain.DateKey(appt.Date))
	}

	slots, err := uc.scheduleRepo.ListSlots(ctx, schedule.ID, true)
	if err != nil {
		return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	appointments, err := uc.appointmentRepo.GetByOfficeAndDate(ctx, appt.OfficeID, appt.Date, domain.CapacityStatuses)
	if err != nil {
		return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	_, err = domain.CheckCapacity(slots, appointments, ref, appt.ID, appt.Date, now)
	switch {
	case errors.Is(err, domain.ErrSlotFull):
		return fmt.Errorf("%w: %v", ErrSlotFull, err)
	case errors.Is(err, domain.ErrSlotNotBookable):
		return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
	case err != nil:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return nil
}

func (uc *UseCase) fail(id int64, err error) error {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		uc.logger.Warn("UpdateAppointment: appointment id=%d not found", id)
		uc.count("not_found")
		return err
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidTimeSlot):
		uc.logger.Warn("UpdateAppointment: id=%d: %v", id, err)
		uc.count("invalid")
		return err
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrSlotFull), errors.Is(err, ErrSlotNotAvailable):
		uc.logger.Warn("UpdateAppointment: id=%d: %v", id, err)
		uc.count("conflict")
		return err
	case errors.Is(err, ErrInternal):
		uc.logger.Error("UpdateAppointment: id=%d: %v", id, err)
		uc.count("error")
		return err
	default:
		uc.logger.Error("UpdateAppointment: id=%d: transaction failed: %v", id, err)
		uc.count("error")
		return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}
}

func (uc *UseCase) invalidate(ctx context.Context, officeID int64, date time.Time) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, officeID, date); err != nil {
		uc.logger.Warn("UpdateAppointment: failed to invalidate cache for office=%d, date=%s: %v",
			officeID, domain.DateKey(date), err)
	}
}

func (uc *UseCase) count(outcome string) {
	if uc.metrics != nil {
		uc.metrics.IncAppointmentOperation("update", outcome)
	}
}
