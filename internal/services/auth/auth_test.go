package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/NartechSolution/fatsAiBackend/internal/lib/apperr"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/jwt"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/password"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
	"github.com/NartechSolution/fatsAiBackend/internal/services/auth"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) FindByNfcNumber(ctx context.Context, nfcNumber string) (*models.User, error) {
	args := m.Called(ctx, nfcNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Мок для SubscriptionRepository
type SubRepoMock struct {
	mock.Mock
}

func (m *SubRepoMock) FindActiveByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(users *UserRepoMock, subs *SubRepoMock) *auth.Service {
	return auth.New(users, subs, jwt.NewJWTMaker("test-secret", time.Hour), newNoopLogger())
}

func TestLogin(t *testing.T) {
	hash, err := password.GetHash("correctpassword")
	require.NoError(t, err)

	testUser := &models.User{
		ID:           "user-1",
		Email:        "test@example.com",
		Username:     "testuser",
		PasswordHash: hash,
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock)
		wantStatus int
		wantErr    bool
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "correctpassword",
			setupMocks: func(r *UserRepoMock) {
				r.On("FindByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
			},
		},
		{
			name:     "user not found",
			email:    "missing@example.com",
			password: "whatever",
			setupMocks: func(r *UserRepoMock) {
				r.On("FindByEmail", mock.Anything, "missing@example.com").Return(nil, nil).Once()
			},
			wantStatus: 401,
			wantErr:    true,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock) {
				r.On("FindByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
			},
			wantStatus: 401,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			tt.setupMocks(users)
			svc := newService(users, new(SubRepoMock))

			user, token, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantStatus, apperr.Status(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, "user-1", user.ID)
				assert.NotEmpty(t, token)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestLoginWithNfc(t *testing.T) {
	nfc := "CARD-1"
	enabledUser := &models.User{ID: "user-1", Email: "a@b.com", IsNfcEnable: true, NfcNumber: &nfc}
	disabledUser := &models.User{ID: "user-2", Email: "b@b.com", IsNfcEnable: false, NfcNumber: &nfc}

	tests := []struct {
		name       string
		setupMocks func(r *UserRepoMock)
		wantErr    bool
	}{
		{
			name: "successful nfc login",
			setupMocks: func(r *UserRepoMock) {
				r.On("FindByNfcNumber", mock.Anything, "CARD-1").Return(enabledUser, nil).Once()
			},
		},
		{
			name: "unknown card",
			setupMocks: func(r *UserRepoMock) {
				r.On("FindByNfcNumber", mock.Anything, "CARD-1").Return(nil, nil).Once()
			},
			wantErr: true,
		},
		{
			name: "nfc disabled for holder",
			setupMocks: func(r *UserRepoMock) {
				r.On("FindByNfcNumber", mock.Anything, "CARD-1").Return(disabledUser, nil).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			tt.setupMocks(users)
			svc := newService(users, new(SubRepoMock))

			user, token, err := svc.LoginWithNfc(context.Background(), "CARD-1")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, 401, apperr.Status(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, "user-1", user.ID)
				assert.NotEmpty(t, token)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	users := new(UserRepoMock)
	subs := new(SubRepoMock)
	testUser := &models.User{ID: "user-1", Email: "a@b.com"}
	testSub := &models.Subscription{ID: 5, UserID: "user-1", Status: "active"}

	users.On("GetUser", mock.Anything, "user-1").Return(testUser, nil).Once()
	subs.On("FindActiveByUser", mock.Anything, "user-1").Return(testSub, nil).Once()

	svc := newService(users, subs)
	user, sub, err := svc.CurrentUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	require.NotNil(t, sub)
	assert.Equal(t, int64(5), sub.ID)
}

func TestValidateToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	svc := auth.New(new(UserRepoMock), new(SubRepoMock), maker, newNoopLogger())

	token, err := maker.GenerateToken("user-1", "a@b.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)

	_, err = svc.ValidateToken(context.Background(), "garbage")
	require.Error(t, err)
	assert.Equal(t, 401, apperr.Status(err))
}
