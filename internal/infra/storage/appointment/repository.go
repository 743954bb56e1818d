package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/psqlbuilder"
)

var appointmentColumns = []string{
	"id",
	"office_id",
	"date",
	"time_slot",
	"status",
	"lead_id",
	"deal_id",
	"contact_id",
	"created_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей на прием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"office_id",
			"date",
			"time_slot",
			"status",
			"lead_id",
			"deal_id",
			"contact_id",
			"created_by",
		).
		Values(
			appt.OfficeID,
			domain.DateKey(appt.Date),
			appt.TimeSlot,
			appt.Status,
			appt.LeadID,
			appt.DealID,
			appt.ContactID,
			appt.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// GetByOfficeAndDate получает записи офиса на дату в указанных статусах
// Пустой список статусов означает все статусы
func (r *Repository) GetByOfficeAndDate(ctx context.Context, officeID int64, date time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error) {
	start := date
	return r.List(ctx, domain.AppointmentFilter{
		OfficeID:  &officeID,
		StartDate: &start,
		EndDate:   &start,
		Statuses:  statuses,
	})
}

// FindActiveByLead ищет последнюю подтвержденную запись лида с датой не раньше fromDate
func (r *Repository) FindActiveByLead(ctx context.Context, leadID int64, fromDate time.Time) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"lead_id": leadID, "status": string(domain.StatusConfirmed)}).
		Where(squirrel.GtOrEq{"date": domain.DateKey(fromDate)}).
		OrderBy("created_at DESC", "id DESC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveByLead - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveByLead - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// List получает записи с фильтрацией
// Для одной даты сортирует по слоту, иначе по дате и слоту
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments")

	if filter.OfficeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"office_id": *filter.OfficeID})
	}
	if filter.LeadID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"lead_id": *filter.LeadID})
	}
	if filter.OnlyLeads {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"lead_id": nil})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"date": domain.DateKey(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"date": domain.DateKey(*filter.EndDate)})
	}
	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.StatusStrings(filter.Statuses)})
	}

	if filter.StartDate != nil && filter.EndDate != nil && domain.IsSameDay(*filter.StartDate, *filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("time_slot ASC", "id ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("date ASC", "time_slot ASC", "id ASC")
	}

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(filter.Offset)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// Update сохраняет офис, дату, слот и статус записи
func (r *Repository) Update(ctx context.Context, appt *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("office_id", appt.OfficeID).
		Set("date", domain.DateKey(appt.Date)).
		Set("time_slot", appt.TimeSlot).
		Set("status", appt.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": appt.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAppointmentNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// AppendHistory добавляет запись в журнал изменений
func (r *Repository) AppendHistory(ctx context.Context, entry *domain.AppointmentHistory) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointment_history").
		Columns("appointment_id", "action", "from_status", "to_status", "details", "actor_id").
		Values(entry.AppointmentID, entry.Action, entry.FromStatus, entry.ToStatus, entry.Details, entry.ActorID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AppendHistory - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("%w: AppendHistory - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var leadID, dealID, contactID, createdBy sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.OfficeID,
		&appt.Date,
		&appt.TimeSlot,
		&appt.Status,
		&leadID,
		&dealID,
		&contactID,
		&createdBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.LeadID = nullInt64(leadID)
	appt.DealID = nullInt64(dealID)
	appt.ContactID = nullInt64(contactID)
	appt.CreatedBy = nullInt64(createdBy)
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
