package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/NartechSolution/fatsAiBackend/internal/models"
	"github.com/NartechSolution/fatsAiBackend/internal/services/audit"
)

// Мок для AuditRepository
type AuditRepoMock struct {
	mock.Mock
}

func (m *AuditRepoMock) GetOrCreateSettings(ctx context.Context) (*models.AuditLogSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditLogSettings), args.Error(1)
}

func (m *AuditRepoMock) UpdateSettings(ctx context.Context, enable bool, logLevel string) (*models.AuditLogSettings, error) {
	args := m.Called(ctx, enable, logLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditLogSettings), args.Error(1)
}

func (m *AuditRepoMock) CreateLog(ctx context.Context, entry models.AuditLog) (*models.AuditLog, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditLog), args.Error(1)
}

func (m *AuditRepoMock) ListLogs(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

// Фейковый кеш настроек
type cacheFake struct {
	data        map[string][]byte
	invalidated []string
}

func newCacheFake() *cacheFake {
	return &cacheFake{data: map[string][]byte{}}
}

func (c *cacheFake) Get(_ string, _ any) (bool, error) { return false, nil }

func (c *cacheFake) Set(key string, _ any, _ time.Duration) error {
	c.data[key] = []byte("cached")
	return nil
}

func (c *cacheFake) Invalidate(key string) error {
	c.invalidated = append(c.invalidated, key)
	delete(c.data, key)
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func enabledSettings() *models.AuditLogSettings {
	return &models.AuditLogSettings{ID: 1, EnableAuditLogging: true, LogLevel: "All Activities"}
}

func disabledSettings() *models.AuditLogSettings {
	return &models.AuditLogSettings{ID: 1, EnableAuditLogging: false, LogLevel: "All Activities"}
}

func TestLogActivity_Gating(t *testing.T) {
	tests := []struct {
		name       string
		settings   *models.AuditLogSettings
		wantCreate bool
	}{
		{"logging enabled creates row", enabledSettings(), true},
		{"logging disabled creates nothing", disabledSettings(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AuditRepoMock)
			repo.On("GetOrCreateSettings", mock.Anything).Return(tt.settings, nil).Once()
			if tt.wantCreate {
				repo.On("CreateLog", mock.Anything, mock.MatchedBy(func(entry models.AuditLog) bool {
					return entry.Activity == "POST /api/v1/auth/create-user" &&
						entry.UserName == "a@b.com" &&
						entry.Status == "Success"
				})).Return(&models.AuditLog{ID: 7}, nil).Once()
			}

			svc := audit.New(repo, nil, newNoopLogger())
			svc.LogActivity(context.Background(), "POST /api/v1/auth/create-user", nil, "a@b.com", "Success", nil)

			repo.AssertExpectations(t)
			if !tt.wantCreate {
				repo.AssertNotCalled(t, "CreateLog", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestLogActivity_SwallowsErrors(t *testing.T) {
	repo := new(AuditRepoMock)
	repo.On("GetOrCreateSettings", mock.Anything).Return(enabledSettings(), nil).Once()
	repo.On("CreateLog", mock.Anything, mock.Anything).
		Return(nil, errors.New("db is down")).Once()

	svc := audit.New(repo, nil, newNoopLogger())

	// Не должно ни паниковать, ни возвращать ошибку
	svc.LogActivity(context.Background(), "GET /api/v1/auth/me", nil, "", "Failed", nil)
	repo.AssertExpectations(t)
}

func TestLogActivity_GuestFallback(t *testing.T) {
	repo := new(AuditRepoMock)
	repo.On("GetOrCreateSettings", mock.Anything).Return(enabledSettings(), nil).Once()
	repo.On("CreateLog", mock.Anything, mock.MatchedBy(func(entry models.AuditLog) bool {
		return entry.UserName == "Guest"
	})).Return(&models.AuditLog{ID: 8}, nil).Once()

	svc := audit.New(repo, nil, newNoopLogger())
	svc.LogActivity(context.Background(), "GET /api/v1/plans", nil, "", "Success", nil)
	repo.AssertExpectations(t)
}

func TestUpdateSettings_PartialMerge(t *testing.T) {
	repo := new(AuditRepoMock)
	repo.On("GetOrCreateSettings", mock.Anything).Return(enabledSettings(), nil).Once()
	// LogLevel не передан — сохраняется прежний
	repo.On("UpdateSettings", mock.Anything, false, "All Activities").
		Return(disabledSettings(), nil).Once()

	cache := newCacheFake()
	svc := audit.New(repo, cache, newNoopLogger())

	disable := false
	updated, err := svc.UpdateSettings(context.Background(), models.AuditSettingsRequest{
		EnableAuditLogging: &disable,
	})
	require.NoError(t, err)
	assert.False(t, updated.EnableAuditLogging)
	assert.Contains(t, cache.invalidated, "audit:settings")
	repo.AssertExpectations(t)
}

func TestCreateEntry_DisabledReturnsNil(t *testing.T) {
	repo := new(AuditRepoMock)
	repo.On("GetOrCreateSettings", mock.Anything).Return(disabledSettings(), nil).Once()

	svc := audit.New(repo, nil, newNoopLogger())
	entry, err := svc.CreateEntry(context.Background(), models.AuditLogRequest{
		Activity: "Manual entry",
		UserName: "admin@b.com",
		Status:   "Success",
	})
	require.NoError(t, err)
	assert.Nil(t, entry)
	repo.AssertNotCalled(t, "CreateLog", mock.Anything, mock.Anything)
}

func TestCreateEntry_Enabled(t *testing.T) {
	repo := new(AuditRepoMock)
	repo.On("GetOrCreateSettings", mock.Anything).Return(enabledSettings(), nil).Once()
	repo.On("CreateLog", mock.Anything, mock.MatchedBy(func(entry models.AuditLog) bool {
		return entry.Activity == "Manual entry" &&
			entry.UserName == "admin@b.com" &&
			entry.UserID != nil && *entry.UserID == "user-9"
	})).Return(&models.AuditLog{ID: 12, Activity: "Manual entry"}, nil).Once()

	svc := audit.New(repo, nil, newNoopLogger())
	entry, err := svc.CreateEntry(context.Background(), models.AuditLogRequest{
		Activity: "Manual entry",
		UserID:   "user-9",
		UserName: "admin@b.com",
		Status:   "Success",
	})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, int64(12), entry.ID)
	repo.AssertExpectations(t)
}

func TestRecentLogs(t *testing.T) {
	repo := new(AuditRepoMock)
	repo.On("ListLogs", mock.Anything, 100).Return([]*models.AuditLog{
		{ID: 2, Activity: "GET /api/v1/auth/me"},
		{ID: 1, Activity: "POST /api/v1/auth/login"},
	}, nil).Once()

	svc := audit.New(repo, nil, newNoopLogger())
	logs, err := svc.RecentLogs(context.Background())
	require.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, int64(2), logs[0].ID)
	repo.AssertExpectations(t)
}
