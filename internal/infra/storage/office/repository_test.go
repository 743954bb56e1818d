package office

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	columns := []string{"id", "city", "address", "external_id", "created_at"}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, city, address, external_id, created_at FROM offices WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), "Москва", "ул. Ленина, 1", int64(77), created))
	mock.ExpectQuery(regexp.QuoteMeta("FROM offices WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(regexp.QuoteMeta("FROM offices WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnError(errors.New("connection refused"))

	office, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Москва", office.City)
	require.NotNil(t, office.ExternalID)
	assert.Equal(t, int64(77), *office.ExternalID)
	assert.True(t, office.HasExternalID())

	_, err = repo.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrOfficeNotFound)

	_, err = repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrScanRow)

	assert.NoError(t, mock.ExpectationsWereMet())
}
