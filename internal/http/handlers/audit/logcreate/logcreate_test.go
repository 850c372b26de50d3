package logcreate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// Мок сервиса аудита
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) CreateEntry(ctx context.Context, req models.AuditLogRequest) (*models.AuditLog, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditLog), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func doRequest(t *testing.T, handler http.Handler, payload any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var body []byte
	switch v := payload.(type) {
	case string:
		body = []byte(v)
	default:
		var err error
		body, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audit-logs/logs", bytes.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	return rec, got
}

func TestLogCreateHandler_Created(t *testing.T) {
	svcMock := new(ServiceMock)
	svcMock.On("CreateEntry", mock.Anything, mock.MatchedBy(func(req models.AuditLogRequest) bool {
		return req.Activity == "Manual check" && req.Status == "Success"
	})).Return(&models.AuditLog{ID: 3, Activity: "Manual check", UserName: "admin@b.com", Status: "Success"}, nil).Once()

	handler := New(newNoopLogger(), svcMock)
	rec, got := doRequest(t, handler, models.AuditLogRequest{
		Activity: "Manual check",
		UserName: "admin@b.com",
		Status:   "Success",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, got["success"])
	data, ok := got["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Manual check", data["activity"])
	svcMock.AssertExpectations(t)
}

func TestLogCreateHandler_Disabled(t *testing.T) {
	svcMock := new(ServiceMock)
	svcMock.On("CreateEntry", mock.Anything, mock.Anything).Return(nil, nil).Once()

	handler := New(newNoopLogger(), svcMock)
	rec, got := doRequest(t, handler, models.AuditLogRequest{
		Activity: "Manual check",
		UserName: "admin@b.com",
		Status:   "Success",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "Audit logging is disabled", got["message"])
	assert.Nil(t, got["data"])
	svcMock.AssertExpectations(t)
}

func TestLogCreateHandler_Validation(t *testing.T) {
	handler := New(newNoopLogger(), new(ServiceMock))

	// Status вне допустимых значений
	rec, got := doRequest(t, handler, models.AuditLogRequest{
		Activity: "Manual check",
		UserName: "admin@b.com",
		Status:   "Unknown",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, got["success"])
}

func TestLogCreateHandler_InvalidJSON(t *testing.T) {
	handler := New(newNoopLogger(), new(ServiceMock))
	rec, got := doRequest(t, handler, "not a json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", got["message"])
}
