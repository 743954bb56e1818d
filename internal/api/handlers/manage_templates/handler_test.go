package manage_templates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/internal/service/templates"
	"github.com/m04kA/SMC-OfficeScheduler/internal/service/templates/models"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockService struct {
	mock.Mock
}

func (m *mockService) Create(ctx context.Context, req *models.TemplateRequest) (*models.TemplateResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.TemplateResponse)
	return resp, args.Error(1)
}

func (m *mockService) GetByID(ctx context.Context, id int64) (*models.TemplateResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*models.TemplateResponse)
	return resp, args.Error(1)
}

func (m *mockService) List(ctx context.Context, officeID *int64) (*models.TemplateListResponse, error) {
	args := m.Called(ctx, officeID)
	resp, _ := args.Get(0).(*models.TemplateListResponse)
	return resp, args.Error(1)
}

func (m *mockService) Update(ctx context.Context, id int64, req *models.TemplateRequest) (*models.TemplateResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*models.TemplateResponse)
	return resp, args.Error(1)
}

func (m *mockService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func serve(svc TemplateService, method, url, body string) *httptest.ResponseRecorder {
	h := NewHandler(svc, nopLogger{})

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/admin/templates", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/admin/templates", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/admin/templates/{templateId}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/admin/templates/{templateId}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/v1/admin/templates/{templateId}", h.Delete).Methods(http.MethodDelete)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, url, strings.NewReader(body)))
	return rec
}

func TestCreate(t *testing.T) {
	svc := &mockService{}
	expected := &models.TemplateRequest{
		Name:            "Будни",
		OfficeID:        ptr.Ptr(int64(1)),
		DefaultCapacity: ptr.Ptr(2),
		Days: map[int][]domain.TimeRange{
			1: {{Start: "09:00", End: "09:30"}},
		},
	}
	svc.On("Create", mock.Anything, expected).Return(&models.TemplateResponse{
		ID: 5, Name: "Будни", OfficeID: ptr.Ptr(int64(1)), DefaultCapacity: 2, Days: expected.Days,
	}, nil)

	rec := serve(svc, http.MethodPost, "/api/v1/admin/templates",
		`{"name":"Будни","officeId":1,"defaultCapacity":2,"days":{"1":[{"start":"09:00","end":"09:30"}]}}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.TemplateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, 2, resp.DefaultCapacity)
	svc.AssertExpectations(t)
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed body", `{"name":`, nil, http.StatusBadRequest},
		{"invalid ranges", `{"name":"x","days":{}}`, fmt.Errorf("%w: no ranges", templates.ErrInvalidInput), http.StatusBadRequest},
		{"office not found", `{"name":"x","officeId":9,"days":{}}`, templates.ErrOfficeNotFound, http.StatusNotFound},
		{"storage failure", `{"name":"x","days":{}}`, fmt.Errorf("%w: boom", templates.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.err != nil {
				svc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			rec := serve(svc, http.MethodPost, "/api/v1/admin/templates", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestList(t *testing.T) {
	svc := &mockService{}
	svc.On("List", mock.Anything, (*int64)(nil)).Return(&models.TemplateListResponse{
		Templates: []models.TemplateResponse{{ID: 1}, {ID: 2}},
	}, nil)
	svc.On("List", mock.Anything, ptr.Ptr(int64(3))).Return(&models.TemplateListResponse{
		Templates: []models.TemplateResponse{{ID: 2}},
	}, nil)

	rec := serve(svc, http.MethodGet, "/api/v1/admin/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var all models.TemplateListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&all))
	assert.Len(t, all.Templates, 2)

	rec = serve(svc, http.MethodGet, "/api/v1/admin/templates?officeId=3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var filtered models.TemplateListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&filtered))
	assert.Len(t, filtered.Templates, 1)

	rec = serve(svc, http.MethodGet, "/api/v1/admin/templates?officeId=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}

func TestGetUpdateDelete(t *testing.T) {
	svc := &mockService{}
	svc.On("GetByID", mock.Anything, int64(5)).Return(&models.TemplateResponse{ID: 5, Name: "Будни"}, nil)
	svc.On("GetByID", mock.Anything, int64(6)).Return(nil, templates.ErrTemplateNotFound)
	svc.On("Update", mock.Anything, int64(5), mock.Anything).Return(&models.TemplateResponse{ID: 5, Name: "Выходные"}, nil)
	svc.On("Delete", mock.Anything, int64(5)).Return(nil)
	svc.On("Delete", mock.Anything, int64(6)).Return(templates.ErrTemplateNotFound)

	assert.Equal(t, http.StatusOK, serve(svc, http.MethodGet, "/api/v1/admin/templates/5", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(svc, http.MethodGet, "/api/v1/admin/templates/6", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, http.MethodGet, "/api/v1/admin/templates/0", "").Code)

	rec := serve(svc, http.MethodPut, "/api/v1/admin/templates/5", `{"name":"Выходные","days":{"6":[{"start":"10:00","end":"11:00"}]}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Выходные")

	assert.Equal(t, http.StatusNoContent, serve(svc, http.MethodDelete, "/api/v1/admin/templates/5", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(svc, http.MethodDelete, "/api/v1/admin/templates/6", "").Code)

	svc.AssertExpectations(t)
}
