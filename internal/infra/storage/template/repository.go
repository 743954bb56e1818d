package template

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/psqlbuilder"
)

var templateColumns = []string{
	"id",
	"name",
	"office_id",
	"default_capacity",
	"days",
	"created_at",
	"updated_at",
}

// Repository репозиторий недельных шаблонов расписания
// Дни недели хранятся в JSONB: {"1": [{"start": "09:00", "end": "09:30", "capacity": 1}]}
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория шаблонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает шаблон
func (r *Repository) Create(ctx context.Context, tpl *domain.Template) (*domain.Template, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	days, err := encodeDays(tpl.Days)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("templates").
		Columns("name", "office_id", "default_capacity", "days").
		Values(tpl.Name, tpl.OfficeID, tpl.DefaultCapacity, days).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return tpl, nil
}

// GetByID получает шаблон по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Template, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("templates").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	tpl, err := scanTemplate(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan template: %v", ErrScanRow, err)
	}

	return tpl, nil
}

// List получает шаблоны
// При заданном officeID возвращает шаблоны офиса и глобальные шаблоны
func (r *Repository) List(ctx context.Context, officeID *int64) ([]*domain.Template, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(templateColumns...).
		From("templates").
		OrderBy("id ASC")

	if officeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"office_id": *officeID},
			squirrel.Eq{"office_id": nil},
		})
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

	templates := make([]*domain.Template, 0)
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan template: %v", ErrScanRow, err)
		}
		templates = append(templates, tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return templates, nil
}

// Update обновляет шаблон целиком
func (r *Repository) Update(ctx context.Context, tpl *domain.Template) (*domain.Template, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	days, err := encodeDays(tpl.Days)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Update("templates").
		Set("name", tpl.Name).
		Set("office_id", tpl.OfficeID).
		Set("default_capacity", tpl.DefaultCapacity).
		Set("days", days).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": tpl.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&tpl.CreatedAt, &tpl.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return tpl, nil
}

// Delete удаляет шаблон
// Уже созданные по шаблону расписания и слоты не затрагиваются
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("templates").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(row rowScanner) (*domain.Template, error) {
	var tpl domain.Template
	var officeID sql.NullInt64
	var days []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&tpl.ID,
		&tpl.Name,
		&officeID,
		&tpl.DefaultCapacity,
		&days,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if officeID.Valid {
		tpl.OfficeID = &officeID.Int64
	}

	tpl.Days = make(map[int][]domain.TimeRange)
	if len(days) > 0 {
		if err := json.Unmarshal(days, &tpl.Days); err != nil {
			return nil, fmt.Errorf("decode days: %v", err)
		}
	}

	tpl.CreatedAt = createdAt.Time
	tpl.UpdatedAt = updatedAt.Time

	return &tpl, nil
}

// encodeDays возвращает JSON строкой: lib/pq передает []byte как bytea
func encodeDays(days map[int][]domain.TimeRange) (string, error) {
	if days == nil {
		days = map[int][]domain.TimeRange{}
	}
	data, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodeDays, err)
	}
	return string(data), nil
}
