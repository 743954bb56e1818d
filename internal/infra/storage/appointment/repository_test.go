package appointment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/ptr"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db), mock
}

func appointmentRow(id int64, status string) *sqlmock.Rows {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(appointmentColumns).AddRow(
		id, int64(10), time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "09:00-09:30", status,
		int64(42), nil, nil, int64(7), now, now,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WithArgs(int64(10), "2024-06-10", "09:00-09:30", "confirmed", int64(42), nil, nil, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	appt, err := repo.Create(context.Background(), &domain.Appointment{
		OfficeID:  10,
		Date:      time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:  "09:00-09:30",
		Status:    domain.StatusConfirmed,
		LeadID:    ptr.Ptr(int64(42)),
		CreatedBy: ptr.Ptr(int64(7)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), appt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM appointments WHERE id = $1")).
			WithArgs(int64(1)).
			WillReturnRows(appointmentRow(1, "pending"))

		appt, err := repo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, appt.Status)
		require.NotNil(t, appt.LeadID)
		assert.Equal(t, int64(42), *appt.LeadID)
		assert.Nil(t, appt.DealID)
		assert.Equal(t, "2024-06-10", domain.DateKey(appt.Date))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM appointments WHERE id = $1")).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(appointmentColumns))

		_, err := repo.GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestRepository_GetByOfficeAndDate_FiltersStatuses(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("status IN ($4,$5)")).
		WithArgs(int64(10), "2024-06-10", "2024-06-10", "pending", "confirmed").
		WillReturnRows(appointmentRow(1, "confirmed"))

	list, err := repo.GetByOfficeAndDate(
		context.Background(),
		10,
		time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		domain.CapacityStatuses,
	)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusConfirmed, list[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindActiveByLead(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC LIMIT 1")).
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	_, err := repo.FindActiveByLead(context.Background(), 42, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE appointments SET")).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := repo.Update(context.Background(), &domain.Appointment{
		ID:       3,
		OfficeID: 10,
		Date:     time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot: "09:00-09:30",
		Status:   domain.StatusCancelled,
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_AppendHistory(t *testing.T) {
	repo, mock := newMockRepo(t)
	from := domain.StatusPending

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointment_history")).
		WithArgs(int64(3), "status_changed", "pending", "confirmed", "", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

	err := repo.AppendHistory(context.Background(), &domain.AppointmentHistory{
		AppointmentID: 3,
		Action:        domain.ActionStatusChanged,
		FromStatus:    &from,
		ToStatus:      domain.StatusConfirmed,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
