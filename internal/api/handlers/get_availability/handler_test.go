package get_availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/internal/service/availability"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockService struct {
	mock.Mock
}

func (m *mockService) GetAvailableSlots(ctx context.Context, officeID int64, date time.Time) ([]domain.SlotAvailability, error) {
	args := m.Called(ctx, officeID, date)
	slots, _ := args.Get(0).([]domain.SlotAvailability)
	return slots, args.Error(1)
}

func serve(svc AvailabilityService, url string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/offices/{officeId}/availability", NewHandler(svc, nopLogger{}).Handle)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &mockService{}
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	svc.On("GetAvailableSlots", mock.Anything, int64(1), date).Return([]domain.SlotAvailability{
		{SlotID: 7, Start: "09:00", End: "09:30", Capacity: 2, Used: 1, Free: 1, Available: true},
	}, nil)

	rec := serve(svc, "/api/v1/offices/1/availability?date=2024-06-10")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, AvailabilityResponse{
		OfficeID: 1,
		Date:     "2024-06-10",
		Slots:    []SlotResponse{{SlotID: 7, TimeSlot: "09:00-09:30", Start: "09:00", End: "09:30", Capacity: 2, Free: 1}},
	}, resp)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		err    error
		status int
	}{
		{"bad office id", "/api/v1/offices/abc/availability?date=2024-06-10", nil, http.StatusBadRequest},
		{"missing date", "/api/v1/offices/1/availability", nil, http.StatusBadRequest},
		{"bad date", "/api/v1/offices/1/availability?date=10.06.2024", nil, http.StatusBadRequest},
		{"office not found", "/api/v1/offices/1/availability?date=2024-06-10", availability.ErrOfficeNotFound, http.StatusNotFound},
		{"storage failure", "/api/v1/offices/1/availability?date=2024-06-10", fmt.Errorf("%w: boom", availability.ErrInternal), http.StatusInternalServerError},
		{"unknown failure", "/api/v1/offices/1/availability?date=2024-06-10", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.err != nil {
				svc.On("GetAvailableSlots", mock.Anything, int64(1), mock.Anything).Return(nil, tt.err)
			}

			rec := serve(svc, tt.url)
			assert.Equal(t, tt.status, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
