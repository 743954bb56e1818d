package manage_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/internal/service/slots"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockService struct {
	mock.Mock
}

func (m *mockService) SetCapacity(ctx context.Context, slotID int64, capacity int) (*domain.Slot, error) {
	args := m.Called(ctx, slotID, capacity)
	slot, _ := args.Get(0).(*domain.Slot)
	return slot, args.Error(1)
}

func (m *mockService) SetAvailability(ctx context.Context, slotID int64, available bool) (*domain.Slot, error) {
	args := m.Called(ctx, slotID, available)
	slot, _ := args.Get(0).(*domain.Slot)
	return slot, args.Error(1)
}

func (m *mockService) CloseDay(ctx context.Context, officeID int64, date time.Time) (*domain.Schedule, error) {
	args := m.Called(ctx, officeID, date)
	schedule, _ := args.Get(0).(*domain.Schedule)
	return schedule, args.Error(1)
}

func (m *mockService) OpenDay(ctx context.Context, officeID int64, date time.Time) (*domain.Schedule, error) {
	args := m.Called(ctx, officeID, date)
	schedule, _ := args.Get(0).(*domain.Schedule)
	return schedule, args.Error(1)
}

func (m *mockService) TruncateAfter(ctx context.Context, officeID int64, date time.Time, cutoff types.TimeString) (int64, error) {
	args := m.Called(ctx, officeID, date, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockService) TruncateBefore(ctx context.Context, officeID int64, date time.Time, cutoff types.TimeString) (int64, error) {
	args := m.Called(ctx, officeID, date, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockService) ClearInterval(ctx context.Context, officeID int64, date time.Time, from, to types.TimeString) (int64, error) {
	args := m.Called(ctx, officeID, date, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockService) AddSlot(ctx context.Context, officeID int64, date time.Time, start, end types.TimeString, capacity int) (*domain.Slot, error) {
	args := m.Called(ctx, officeID, date, start, end, capacity)
	slot, _ := args.Get(0).(*domain.Slot)
	return slot, args.Error(1)
}

var day = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func serve(svc SlotService, method, url, body string) *httptest.ResponseRecorder {
	h := NewHandler(svc, nopLogger{})

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/admin/slots/{slotId}", h.UpdateSlot).Methods(http.MethodPatch)
	r.HandleFunc("/api/v1/admin/offices/{officeId}/days/{date}", h.UpdateDay).Methods(http.MethodPut)
	r.HandleFunc("/api/v1/admin/offices/{officeId}/days/{date}/slots", h.CreateSlot).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/admin/offices/{officeId}/days/{date}/slots", h.DeleteSlots).Methods(http.MethodDelete)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, url, strings.NewReader(body)))
	return rec
}

func TestUpdateSlot(t *testing.T) {
	svc := &mockService{}
	svc.On("SetCapacity", mock.Anything, int64(7), 0).
		Return(&domain.Slot{ID: 7, ScheduleID: 3, Start: "12:00", End: "13:00", Capacity: 0, Available: true}, nil)
	svc.On("SetAvailability", mock.Anything, int64(7), false).
		Return(&domain.Slot{ID: 7, ScheduleID: 3, Start: "12:00", End: "13:00", Capacity: 0, Available: false}, nil)

	rec := serve(svc, http.MethodPatch, "/api/v1/admin/slots/7", `{"capacity":0,"available":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SlotResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, SlotResponse{
		ID: 7, ScheduleID: 3, TimeSlot: "12:00-13:00", Start: "12:00", End: "13:00", Capacity: 0, Available: false,
	}, resp)
	svc.AssertExpectations(t)
}

func TestUpdateSlot_Errors(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		body   string
		err    error
		status int
	}{
		{"bad slot id", "/api/v1/admin/slots/abc", `{"capacity":1}`, nil, http.StatusBadRequest},
		{"empty update", "/api/v1/admin/slots/7", `{}`, nil, http.StatusBadRequest},
		{"unknown field", "/api/v1/admin/slots/7", `{"size":1}`, nil, http.StatusBadRequest},
		{"capacity out of range", "/api/v1/admin/slots/7", `{"capacity":5000}`, fmt.Errorf("%w: capacity", slots.ErrInvalidInput), http.StatusBadRequest},
		{"slot not found", "/api/v1/admin/slots/7", `{"capacity":1}`, slots.ErrSlotNotFound, http.StatusNotFound},
		{"storage failure", "/api/v1/admin/slots/7", `{"capacity":1}`, fmt.Errorf("%w: boom", slots.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.err != nil {
				svc.On("SetCapacity", mock.Anything, int64(7), mock.Anything).Return(nil, tt.err)
			}

			rec := serve(svc, http.MethodPatch, tt.url, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestUpdateDay(t *testing.T) {
	t.Run("close", func(t *testing.T) {
		svc := &mockService{}
		svc.On("CloseDay", mock.Anything, int64(1), day).
			Return(&domain.Schedule{ID: 3, OfficeID: 1, Date: day, IsWorkingDay: false, IsCustomized: true}, nil)

		rec := serve(svc, http.MethodPut, "/api/v1/admin/offices/1/days/2024-06-10", `{"isWorkingDay":false}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp DayResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, DayResponse{ScheduleID: 3, OfficeID: 1, Date: "2024-06-10", IsWorkingDay: false, IsCustomized: true}, resp)
		svc.AssertExpectations(t)
	})

	t.Run("open", func(t *testing.T) {
		svc := &mockService{}
		svc.On("OpenDay", mock.Anything, int64(1), day).
			Return(&domain.Schedule{ID: 3, OfficeID: 1, Date: day, IsWorkingDay: true, IsCustomized: true}, nil)

		rec := serve(svc, http.MethodPut, "/api/v1/admin/offices/1/days/2024-06-10", `{"isWorkingDay":true}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("errors", func(t *testing.T) {
		svc := &mockService{}
		svc.On("CloseDay", mock.Anything, int64(2), day).Return(nil, slots.ErrOfficeNotFound)

		assert.Equal(t, http.StatusBadRequest,
			serve(svc, http.MethodPut, "/api/v1/admin/offices/1/days/10.06.2024", `{"isWorkingDay":false}`).Code)
		assert.Equal(t, http.StatusNotFound,
			serve(svc, http.MethodPut, "/api/v1/admin/offices/2/days/2024-06-10", `{"isWorkingDay":false}`).Code)
	})
}

func TestCreateSlot(t *testing.T) {
	svc := &mockService{}
	svc.On("AddSlot", mock.Anything, int64(1), day, types.TimeString("18:00"), types.TimeString("18:30"), domain.DefaultSlotCapacity).
		Return(&domain.Slot{ID: 9, ScheduleID: 3, Start: "18:00", End: "18:30", Capacity: 1, Available: true}, nil)
	svc.On("AddSlot", mock.Anything, int64(1), day, types.TimeString("09:00"), types.TimeString("09:30"), 2).
		Return(nil, fmt.Errorf("%w: overlaps existing slot", slots.ErrInvalidInput))

	rec := serve(svc, http.MethodPost, "/api/v1/admin/offices/1/days/2024-06-10/slots", `{"start":"18:00","end":"18:30"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SlotResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(9), resp.ID)
	assert.Equal(t, "18:00-18:30", resp.TimeSlot)

	rec = serve(svc, http.MethodPost, "/api/v1/admin/offices/1/days/2024-06-10/slots", `{"start":"09:00","end":"09:30","capacity":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(svc, http.MethodPost, "/api/v1/admin/offices/1/days/2024-06-10/slots", `{"start":"9am","end":"09:30"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}

func TestDeleteSlots(t *testing.T) {
	svc := &mockService{}
	svc.On("TruncateAfter", mock.Anything, int64(1), day, types.TimeString("17:00")).Return(int64(2), nil)
	svc.On("TruncateBefore", mock.Anything, int64(1), day, types.TimeString("10:00")).Return(int64(1), nil)
	svc.On("ClearInterval", mock.Anything, int64(1), day, types.TimeString("12:00"), types.TimeString("13:00")).Return(int64(0), nil)

	tests := []struct {
		query   string
		deleted int64
	}{
		{"after=17:00", 2},
		{"before=10:00", 1},
		{"from=12:00&to=13:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := serve(svc, http.MethodDelete, "/api/v1/admin/offices/1/days/2024-06-10/slots?"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			var resp DeleteSlotsResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.deleted, resp.Deleted)
		})
	}
	svc.AssertExpectations(t)
}

func TestDeleteSlots_InvalidMode(t *testing.T) {
	svc := &mockService{}

	for _, query := range []string{"", "after=17:00&before=10:00", "from=12:00", "after=5pm", "from=12:00&to=1pm"} {
		t.Run(query, func(t *testing.T) {
			rec := serve(svc, http.MethodDelete, "/api/v1/admin/offices/1/days/2024-06-10/slots?"+query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	svc.AssertExpectations(t)
}
