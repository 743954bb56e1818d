package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/psqlbuilder"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/types"
)

var scheduleColumns = []string{
	"id",
	"office_id",
	"date",
	"is_working_day",
	"is_customized",
	"customized_at",
	"created_at",
	"updated_at",
}

var slotColumns = []string{
	"id",
	"schedule_id",
	"start_time",
	"end_time",
	"capacity",
	"is_available",
}

// Repository репозиторий расписаний на дату и их слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByOfficeAndDate получает расписание офиса на дату
// Внутри транзакции строка блокируется (FOR UPDATE): это сериализует
// параллельные записи и правки слотов на одну и ту же пару (офис, дата)
func (r *Repository) GetByOfficeAndDate(ctx context.Context, officeID int64, date time.Time) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(scheduleColumns...).
		From("schedules").
		Where(squirrel.Eq{"office_id": officeID, "date": domain.DateKey(date)})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOfficeAndDate - build select query: %v", ErrBuildQuery, err)
	}

	schedule, err := scanSchedule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOfficeAndDate - scan schedule: %v", ErrScanRow, err)
	}

	return schedule, nil
}

// GetByID получает расписание по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(scheduleColumns...).
		From("schedules").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	schedule, err := scanSchedule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan schedule: %v", ErrScanRow, err)
	}

	return schedule, nil
}

// GetOrCreate возвращает расписание на дату, создавая его при отсутствии
// Уникальность (office_id, date) обеспечивается ограничением в БД,
// существующая строка не меняется (кроме updated_at)
func (r *Repository) GetOrCreate(ctx context.Context, officeID int64, date time.Time, isWorkingDay bool) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedules").
		Columns("office_id", "date", "is_working_day").
		Values(officeID, domain.DateKey(date), isWorkingDay).
		Suffix("ON CONFLICT (office_id, date) DO UPDATE SET updated_at = NOW()").
		Suffix("RETURNING " + strings.Join(scheduleColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOrCreate - build insert query: %v", ErrBuildQuery, err)
	}

	schedule, err := scanSchedule(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: GetOrCreate - execute upsert: %v", ErrExecQuery, err)
	}

	return schedule, nil
}

// UpdateState сохраняет флаги расписания (рабочий день, ручные правки)
func (r *Repository) UpdateState(ctx context.Context, schedule *domain.Schedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedules").
		Set("is_working_day", schedule.IsWorkingDay).
		Set("is_customized", schedule.IsCustomized).
		Set("customized_at", schedule.CustomizedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": schedule.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateState - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

// ListSlots получает слоты расписания, упорядоченные по началу
// onlyAvailable = true оставляет только слоты с is_available = true
func (r *Repository) ListSlots(ctx context.Context, scheduleID int64, onlyAvailable bool) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"schedule_id": scheduleID}).
		OrderBy("start_time ASC", "id ASC")

	if onlyAvailable {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_available": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListSlots - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// CreateSlot создает слот в расписании
func (r *Repository) CreateSlot(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns("schedule_id", "start_time", "end_time", "capacity", "is_available").
		Values(slot.ScheduleID, slot.Start, slot.End, slot.Capacity, slot.Available).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSlot - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateSlot - execute insert: %v", ErrExecQuery, err)
	}

	return slot, nil
}

// GetSlotByID получает слот по ID
func (r *Repository) GetSlotByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// UpdateSlotCapacity меняет вместимость слота
func (r *Repository) UpdateSlotCapacity(ctx context.Context, id int64, capacity int) error {
	return r.updateSlot(ctx, "UpdateSlotCapacity", id, "capacity", capacity)
}

// UpdateSlotAvailability включает или выключает слот
func (r *Repository) UpdateSlotAvailability(ctx context.Context, id int64, available bool) error {
	return r.updateSlot(ctx, "UpdateSlotAvailability", id, "is_available", available)
}

func (r *Repository) updateSlot(ctx context.Context, op string, id int64, column string, value interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set(column, value).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// DeleteSlots удаляет все слоты расписания
func (r *Repository) DeleteSlots(ctx context.Context, scheduleID int64) (int64, error) {
	return r.deleteSlots(ctx, "DeleteSlots", squirrel.Eq{"schedule_id": scheduleID})
}

// DeleteSlotsStartingFrom удаляет слоты с началом не раньше cutoff (закрытие раньше)
func (r *Repository) DeleteSlotsStartingFrom(ctx context.Context, scheduleID int64, cutoff types.TimeString) (int64, error) {
	return r.deleteSlots(ctx, "DeleteSlotsStartingFrom", squirrel.And{
		squirrel.Eq{"schedule_id": scheduleID},
		squirrel.GtOrEq{"start_time": cutoff},
	})
}

// DeleteSlotsEndingBy удаляет слоты, закончившиеся не позже cutoff (открытие позже)
func (r *Repository) DeleteSlotsEndingBy(ctx context.Context, scheduleID int64, cutoff types.TimeString) (int64, error) {
	return r.deleteSlots(ctx, "DeleteSlotsEndingBy", squirrel.And{
		squirrel.Eq{"schedule_id": scheduleID},
		squirrel.LtOrEq{"end_time": cutoff},
	})
}

// DeleteSlotsOverlapping удаляет слоты, полностью или частично попадающие в [from, to)
func (r *Repository) DeleteSlotsOverlapping(ctx context.Context, scheduleID int64, from, to types.TimeString) (int64, error) {
	return r.deleteSlots(ctx, "DeleteSlotsOverlapping", squirrel.And{
		squirrel.Eq{"schedule_id": scheduleID},
		squirrel.Lt{"start_time": to},
		squirrel.Gt{"end_time": from},
	})
}

func (r *Repository) deleteSlots(ctx context.Context, op string, where squirrel.Sqlizer) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute delete: %v", ErrExecQuery, op, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSchedule(row rowScanner) (*domain.Schedule, error) {
	var schedule domain.Schedule
	var customizedAt sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&schedule.ID,
		&schedule.OfficeID,
		&schedule.Date,
		&schedule.IsWorkingDay,
		&schedule.IsCustomized,
		&customizedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if customizedAt.Valid {
		schedule.CustomizedAt = &customizedAt.Time
	}
	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return &schedule, nil
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var slot domain.Slot
	err := row.Scan(
		&slot.ID,
		&slot.ScheduleID,
		&slot.Start,
		&slot.End,
		&slot.Capacity,
		&slot.Available,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
