package update_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OfficeScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	updateAppointment "github.com/m04kA/SMC-OfficeScheduler/internal/usecase/update_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *updateAppointment.Request) (*updateAppointment.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*updateAppointment.Response)
	return resp, args.Error(1)
}

func patch(uc UpdateAppointmentUseCase, id, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/api/v1/appointments/{appointmentId}", middleware.Auth(http.HandlerFunc(NewHandler(uc, nopLogger{}).Handle)))

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+id, strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "7")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *updateAppointment.Request) bool {
		return req.AppointmentID == 10 &&
			domain.DateKey(*req.Date) == "2024-06-11" &&
			req.Status == nil &&
			req.TimeSlot == nil &&
			*req.ActorID == 7
	})).Return(&updateAppointment.Response{ID: 10, Status: "rescheduled", PreviousStatus: "pending"}, nil)

	rec := patch(uc, "10", `{"date":"2024-06-11"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "rescheduled", resp.Status)
	assert.Equal(t, "pending", resp.PreviousStatus)
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		body   string
		err    error
		status int
	}{
		{"bad id", "abc", `{}`, nil, http.StatusBadRequest},
		{"bad status", "10", `{"status":"lost"}`, nil, http.StatusBadRequest},
		{"bad date", "10", `{"date":"11.06.2024"}`, nil, http.StatusBadRequest},
		{"not found", "10", `{"status":"cancelled"}`, updateAppointment.ErrAppointmentNotFound, http.StatusNotFound},
		{"invalid transition", "10", `{"status":"confirmed"}`, updateAppointment.ErrInvalidTransition, http.StatusConflict},
		{"slot full", "10", `{"timeSlot":"10:00-10:30"}`, updateAppointment.ErrSlotFull, http.StatusConflict},
		{"bad slot", "10", `{"timeSlot":"ten"}`, updateAppointment.ErrInvalidTimeSlot, http.StatusBadRequest},
		{"internal", "10", `{"status":"cancelled"}`, updateAppointment.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.err != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			rec := patch(uc, tt.id, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			uc.AssertExpectations(t)
		})
	}
}
