package office

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/psqlbuilder"
)

// Repository репозиторий офисов (только чтение, офисами управляет админка)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория офисов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает офис по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Office, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "city", "address", "external_id", "created_at").
		From("offices").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var office domain.Office
	var externalID sql.NullInt64

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&office.ID,
		&office.City,
		&office.Address,
		&externalID,
		&office.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfficeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan office: %v", ErrScanRow, err)
	}

	if externalID.Valid {
		office.ExternalID = &externalID.Int64
	}

	return &office, nil
}
