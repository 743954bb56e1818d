package create_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OfficeScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	createAppointment "github.com/m04kA/SMC-OfficeScheduler/internal/usecase/create_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createAppointment.Response)
	return resp, args.Error(1)
}

func post(uc CreateAppointmentUseCase, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createAppointment.Request) bool {
		return req.OfficeID == 1 &&
			domain.DateKey(req.Date) == "2024-06-10" &&
			req.TimeSlot == "09:00-09:30" &&
			*req.LeadID == 555 &&
			*req.CreatedBy == 7 &&
			req.InitialStatus == nil
	})).Return(&createAppointment.Response{
		ID:       10,
		OfficeID: 1,
		Date:     time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot: "09:00-09:30",
		Status:   "confirmed",
	}, nil)

	rec := post(uc, `{"officeId":1,"date":"2024-06-10","timeSlot":"09:00-09:30","leadId":555}`, 7)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "2024-06-10", resp.Date)
	assert.False(t, resp.Rescheduled)
	uc.AssertExpectations(t)
}

func TestHandle_RescheduledReturnsOK(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&createAppointment.Response{ID: 10, Rescheduled: true}, nil)

	rec := post(uc, `{"officeId":1,"date":"2024-06-11","timeSlot":"09:00-09:30","leadId":555}`, 7)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		userID int64
		err    error
		status int
	}{
		{"no user", `{}`, 0, nil, http.StatusUnauthorized},
		{"broken json", `{"officeId":`, 7, nil, http.StatusBadRequest},
		{"unknown field", `{"officeId":1,"room":3}`, 7, nil, http.StatusBadRequest},
		{"bad date", `{"officeId":1,"date":"tomorrow","timeSlot":"09:00-09:30"}`, 7, nil, http.StatusBadRequest},
		{"bad status", `{"officeId":1,"date":"2024-06-10","timeSlot":"09:00-09:30","status":"lost"}`, 7, nil, http.StatusBadRequest},
		{"office not found", `{"officeId":9,"date":"2024-06-10","timeSlot":"09:00-09:30"}`, 7, createAppointment.ErrOfficeNotFound, http.StatusNotFound},
		{"past date", `{"officeId":1,"date":"2024-06-01","timeSlot":"09:00-09:30"}`, 7, createAppointment.ErrInvalidDate, http.StatusBadRequest},
		{"slot full", `{"officeId":1,"date":"2024-06-10","timeSlot":"09:00-09:30"}`, 7, createAppointment.ErrSlotFull, http.StatusConflict},
		{"slot not available", `{"officeId":1,"date":"2024-06-10","timeSlot":"09:00-09:30"}`, 7, createAppointment.ErrSlotNotAvailable, http.StatusConflict},
		{"internal", `{"officeId":1,"date":"2024-06-10","timeSlot":"09:00-09:30"}`, 7, createAppointment.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.err != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			rec := post(uc, tt.body, tt.userID)
			assert.Equal(t, tt.status, rec.Code)
			uc.AssertExpectations(t)
		})
	}
}
