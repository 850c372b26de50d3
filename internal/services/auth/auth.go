// Package auth реализует вход по паролю и NFC-карте, а также
// проверку токена доступа.
package auth

import (
	"context"
	"log/slog"

	"github.com/NartechSolution/fatsAiBackend/internal/lib/apperr"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/jwt"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/password"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/sl"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// UserRepository описывает контракт хранилища пользователей для входа.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByNfcNumber(ctx context.Context, nfcNumber string) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// SubscriptionRepository отдает активную подписку пользователя.
type SubscriptionRepository interface {
	FindActiveByUser(ctx context.Context, userID string) (*models.Subscription, error)
}

// Service отвечает за аутентификацию и выдачу токенов доступа.
type Service struct {
	users         UserRepository
	subscriptions SubscriptionRepository
	jwtMaker      jwt.Maker
	log           *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, subscriptions SubscriptionRepository,
	jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:         users,
		subscriptions: subscriptions,
		jwtMaker:      jwtMaker,
		log:           log,
	}
}

// Login проверяет пару email/пароль и возвращает пользователя с токеном.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	const op = "auth.Login"

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("failed to find user", slog.String("op", op), sl.Err(err))
		return nil, "", apperr.Internal("Failed to authenticate", err)
	}
	if user == nil {
		return nil, "", apperr.Unauthorized("Invalid email or password")
	}
	if err = password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", apperr.Unauthorized("Invalid email or password")
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email)
	if err != nil {
		s.log.Error("failed to generate token", slog.String("op", op), sl.Err(err))
		return nil, "", apperr.Internal("Failed to generate access token", err)
	}
	return user, token, nil
}

// LoginWithNfc выполняет вход по номеру NFC-карты. Неизвестная карта
// и карта пользователя с выключенным NFC неразличимы для клиента.
func (s *Service) LoginWithNfc(ctx context.Context, nfcNumber string) (*models.User, string, error) {
	const op = "auth.LoginWithNfc"

	user, err := s.users.FindByNfcNumber(ctx, nfcNumber)
	if err != nil {
		s.log.Error("failed to find user by nfc", slog.String("op", op), sl.Err(err))
		return nil, "", apperr.Internal("Failed to authenticate", err)
	}
	if user == nil || !user.IsNfcEnable {
		return nil, "", apperr.Unauthorized("Invalid NFC card")
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email)
	if err != nil {
		s.log.Error("failed to generate token", slog.String("op", op), sl.Err(err))
		return nil, "", apperr.Internal("Failed to generate access token", err)
	}
	return user, token, nil
}

// CurrentUser возвращает пользователя и его активную подписку (nil,
// если подписки нет).
func (s *Service) CurrentUser(ctx context.Context, userID string) (*models.User, *models.Subscription, error) {
	const op = "auth.CurrentUser"

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to load user", slog.String("op", op), sl.Err(err))
		return nil, nil, apperr.NotFound("User not found")
	}
	sub, err := s.subscriptions.FindActiveByUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to load subscription", slog.String("op", op), sl.Err(err))
		return nil, nil, apperr.Internal("Failed to load subscription", err)
	}
	return user, sub, nil
}

// ValidateToken проверяет токен доступа и возвращает его полезную нагрузку.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}
	return claims, nil
}
