package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/appointment"
)

// Названия заданий для логов и метрик
const (
	JobSync   = "sync"
	JobExpire = "expire"
	JobDedupe = "dedupe"
)

// Result итог прогона задания
type Result struct {
	Inspected int `json:"inspected"`
	Changed   int `json:"changed"`
}

// ParseStatusMap проверяет таблицу стадий CRM -> статус записи
func ParseStatusMap(raw map[string]string) (map[string]domain.AppointmentStatus, error) {
	result := make(map[string]domain.AppointmentStatus, len(raw))
	for stage, value := range raw {
		status, err := domain.ParseAppointmentStatus(value)
		if err != nil {
			return nil, fmt.Errorf("%w: stage %s: %v", ErrInvalidStatusMap, stage, err)
		}
		result[stage] = status
	}
	return result, nil
}

// Service сервис сверки записей с лидами CRM
type Service struct {
	appointmentRepo AppointmentRepository
	crm             LeadStatusProvider
	txManager       TransactionManager
	cache           CacheInvalidator
	metrics         Metrics
	statusMap       map[string]domain.AppointmentStatus
	lookbackDays    int
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает сервис сверки записей
// crm = nil отключает синхронизацию статусов, остальные задания работают
func NewService(
	appointmentRepo AppointmentRepository,
	crm LeadStatusProvider,
	txManager TransactionManager,
	cache CacheInvalidator,
	metrics Metrics,
	statusMap map[string]domain.AppointmentStatus,
	lookbackDays int,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		crm:             crm,
		txManager:       txManager,
		cache:           cache,
		metrics:         metrics,
		statusMap:       statusMap,
		lookbackDays:    lookbackDays,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// AutoSyncStatuses переносит стадии лидов Bitrix24 в статусы записей
//
// Берутся нетерминальные записи с лидом за последние lookbackDays дней.
// Применяются только переходы, разрешенные таблицей статусов;
// стадии, которых нет в таблице, игнорируются.
func (s *Service) AutoSyncStatuses(ctx context.Context) (*Result, error) {
	if s.crm == nil {
		return nil, ErrCRMNotConfigured
	}

	today := domain.TruncateToDate(s.timeProvider.Now())
	from := today.AddDate(0, 0, -s.lookbackDays)

	// 1. Загружаем открытые записи с привязкой к лиду
	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		StartDate: &from,
		Statuses:  domain.OpenStatuses,
		OnlyLeads: true,
	})
	if err != nil {
		s.logger.Error("AutoSyncStatuses: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	result := &Result{Inspected: len(appointments)}
	if len(appointments) == 0 {
		return result, nil
	}

	// 2. Запрашиваем стадии лидов
	stages, err := s.crm.GetLeadStatuses(ctx, leadIDs(appointments))
	if err != nil {
		s.logger.Error("AutoSyncStatuses: failed to fetch lead statuses: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCRMUnavailable, err)
	}

	// 3. Применяем переходы
	touched := newPairSet()
	defer s.flush(ctx, JobSync, touched, result)

	for _, appt := range appointments {
		stage, ok := stages[*appt.LeadID]
		if !ok {
			continue
		}
		target, ok := s.statusMap[stage]
		if !ok || target == appt.Status {
			continue
		}
		if !appt.Status.CanTransitionTo(target) {
			s.logger.Warn("AutoSyncStatuses: appointment id=%d skipped, transition %s -> %s not allowed (stage=%s)",
				appt.ID, appt.Status, target, stage)
			continue
		}

		changed, err := s.transition(ctx, appt, target, domain.ActionSynced, fmt.Sprintf("bitrix stage: %s", stage))
		if err != nil {
			s.logger.Error("AutoSyncStatuses: failed to update appointment id=%d: %v", appt.ID, err)
			return nil, err
		}
		if changed {
			result.Changed++
			touched.add(appt)
		}
	}

	return result, nil
}

// AutoExpireAppointments переводит в expired записи pending и rescheduled с датой раньше сегодняшней
func (s *Service) AutoExpireAppointments(ctx context.Context) (*Result, error) {
	yesterday := domain.TruncateToDate(s.timeProvider.Now()).AddDate(0, 0, -1)

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		EndDate:  &yesterday,
		Statuses: []domain.AppointmentStatus{domain.StatusPending, domain.StatusRescheduled},
	})
	if err != nil {
		s.logger.Error("AutoExpireAppointments: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	result := &Result{Inspected: len(appointments)}
	touched := newPairSet()
	defer s.flush(ctx, JobExpire, touched, result)

	for _, appt := range appointments {
		changed, err := s.transition(ctx, appt, domain.StatusExpired, domain.ActionExpired, "")
		if err != nil {
			s.logger.Error("AutoExpireAppointments: failed to expire appointment id=%d: %v", appt.ID, err)
			return nil, err
		}
		if changed {
			result.Changed++
			touched.add(appt)
		}
	}

	return result, nil
}

// DedupeAppointments отменяет лишние активные записи одного лида
//
// Среди записей лида на сегодня и позже остается самая новая (по CreatedAt, затем ID),
// остальные отменяются. При dryRun ничего не меняется, Changed показывает,
// сколько записей было бы отменено.
func (s *Service) DedupeAppointments(ctx context.Context, dryRun bool) (*Result, error) {
	today := domain.TruncateToDate(s.timeProvider.Now())

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		StartDate: &today,
		Statuses:  domain.OpenStatuses,
		OnlyLeads: true,
	})
	if err != nil {
		s.logger.Error("DedupeAppointments: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	result := &Result{Inspected: len(appointments)}

	byLead := make(map[int64][]*domain.Appointment)
	for _, appt := range appointments {
		byLead[*appt.LeadID] = append(byLead[*appt.LeadID], appt)
	}

	duplicates := make([]*domain.Appointment, 0)
	for _, group := range byLead {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			if !group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].CreatedAt.After(group[j].CreatedAt)
			}
			return group[i].ID > group[j].ID
		})
		duplicates = append(duplicates, group[1:]...)
	}
	sort.Slice(duplicates, func(i, j int) bool { return duplicates[i].ID < duplicates[j].ID })

	if dryRun {
		result.Changed = len(duplicates)
		s.logger.Info("DedupeAppointments: dry run, inspected=%d, would cancel=%d", result.Inspected, result.Changed)
		return result, nil
	}

	touched := newPairSet()
	defer s.flush(ctx, JobDedupe, touched, result)

	for _, appt := range duplicates {
		changed, err := s.transition(ctx, appt, domain.StatusCancelled, domain.ActionDeduplicated,
			fmt.Sprintf("duplicate for lead %d", *appt.LeadID))
		if err != nil {
			s.logger.Error("DedupeAppointments: failed to cancel appointment id=%d: %v", appt.ID, err)
			return nil, err
		}
		if changed {
			result.Changed++
			touched.add(appt)
		}
	}

	return result, nil
}

// transition меняет статус одной записи в отдельной транзакции
// Возвращает false, если запись успела измениться или переход больше не разрешен
func (s *Service) transition(
	ctx context.Context,
	appt *domain.Appointment,
	target domain.AppointmentStatus,
	action domain.HistoryAction,
	details string,
) (bool, error) {
	changed := false

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Перечитываем запись под блокировкой
		current, err := s.appointmentRepo.GetByID(txCtx, appt.ID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return nil
			}
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		if current.Status != appt.Status || !current.Status.CanTransitionTo(target) {
			return nil
		}

		from := current.Status
		current.Status = target
		if err := s.appointmentRepo.Update(txCtx, current); err != nil {
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		if details == "" {
			details = fmt.Sprintf("status: %s -> %s", from, target)
		}
		if err := s.appointmentRepo.AppendHistory(txCtx, &domain.AppointmentHistory{
			AppointmentID: current.ID,
			Action:        action,
			FromStatus:    &from,
			ToStatus:      target,
			Details:       details,
		}); err != nil {
			return fmt.Errorf("%w: failed to append history: %v", ErrInternal, err)
		}

		changed = true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			return false, err
		}
		return false, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	return changed, nil
}

// flush сбрасывает кэш затронутых пар и пишет метрику
// Вызывается и при ошибке: уже закоммиченные изменения должны стать видны
func (s *Service) flush(ctx context.Context, job string, touched *pairSet, result *Result) {
	for _, p := range touched.list() {
		if s.cache == nil {
			break
		}
		if err := s.cache.Invalidate(ctx, p.officeID, p.date); err != nil {
			s.logger.Warn("Reconcile %s: failed to invalidate cache for office=%d, date=%s: %v",
				job, p.officeID, domain.DateKey(p.date), err)
		}
	}

	if s.metrics != nil {
		s.metrics.AddReconciliationChanges(job, touched.changes)
	}

	s.logger.Info("Reconcile %s: inspected=%d, changed=%d, pairs=%d", job, result.Inspected, touched.changes, len(touched.items))
}

func leadIDs(appointments []*domain.Appointment) []int64 {
	seen := make(map[int64]struct{}, len(appointments))
	ids := make([]int64, 0, len(appointments))
	for _, a := range appointments {
		if a.LeadID == nil {
			continue
		}
		if _, ok := seen[*a.LeadID]; ok {
			continue
		}
		seen[*a.LeadID] = struct{}{}
		ids = append(ids, *a.LeadID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type pair struct {
	officeID int64
	date     time.Time
}

// pairSet уникальные пары (офис, дата) в порядке добавления
type pairSet struct {
	items   []pair
	seen    map[string]struct{}
	changes int
}

func newPairSet() *pairSet {
	return &pairSet{seen: make(map[string]struct{})}
}

func (s *pairSet) add(a *domain.Appointment) {
	s.changes++
	key := fmt.Sprintf("%d:%s", a.OfficeID, domain.DateKey(a.Date))
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, pair{officeID: a.OfficeID, date: a.Date})
}

func (s *pairSet) list() []pair {
	return s.items
}
