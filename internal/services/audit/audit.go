// Package audit реализует журнал аудита: учёт действий, управляемый
// единственной строкой настроек, и чтение последних записей.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/NartechSolution/fatsAiBackend/internal/lib/apperr"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/sl"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// settingsCacheKey — ключ кеша для строки настроек аудита.
const settingsCacheKey = "audit:settings"

// settingsCacheTTL ограничивает время жизни кеша настроек: обновление
// через другой экземпляр сервиса подхватится не позднее этого срока.
const settingsCacheTTL = time.Minute

// defaultListLimit — количество записей журнала, отдаваемых по умолчанию.
const defaultListLimit = 100

// AuditRepository описывает контракт хранилища журнала аудита.
type AuditRepository interface {
	// GetOrCreateSettings возвращает строку настроек, создавая её при отсутствии.
	GetOrCreateSettings(ctx context.Context) (*models.AuditLogSettings, error)

	// UpdateSettings обновляет строку настроек и возвращает её.
	UpdateSettings(ctx context.Context, enable bool, logLevel string) (*models.AuditLogSettings, error)

	// CreateLog добавляет запись и возвращает её с id и временем.
	CreateLog(ctx context.Context, entry models.AuditLog) (*models.AuditLog, error)

	// ListLogs возвращает последние записи журнала.
	ListLogs(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

// SettingsCache кеширует строку настроек между запросами.
type SettingsCache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service отвечает за ведение журнала аудита и его настройки.
type Service struct {
	repo  AuditRepository
	cache SettingsCache
	log   *slog.Logger
}

// New создает новый экземпляр Service. Кеш допускает nil: тогда настройки
// читаются из хранилища при каждом обращении.
func New(repo AuditRepository, cache SettingsCache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Settings возвращает текущие настройки аудита, создавая строку
// по умолчанию при первом обращении.
func (s *Service) Settings(ctx context.Context) (*models.AuditLogSettings, error) {
	const op = "audit.Settings"

	if s.cache != nil {
		var cached models.AuditLogSettings
		found, err := s.cache.Get(settingsCacheKey, &cached)
		if err != nil {
			s.log.Warn("settings cache read failed",
				slog.String("op", op), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	settings, err := s.repo.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to load audit settings", err)
	}
	if s.cache != nil {
		if err = s.cache.Set(settingsCacheKey, settings, settingsCacheTTL); err != nil {
			s.log.Warn("settings cache write failed",
				slog.String("op", op), sl.Err(err))
		}
	}
	return settings, nil
}

// UpdateSettings применяет частичное обновление настроек: не переданные
// поля сохраняют прежние значения. Кеш сбрасывается.
func (s *Service) UpdateSettings(ctx context.Context, req models.AuditSettingsRequest) (*models.AuditLogSettings, error) {
	const op = "audit.UpdateSettings"

	current, err := s.repo.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to load audit settings", err)
	}

	enable := current.EnableAuditLogging
	if req.EnableAuditLogging != nil {
		enable = *req.EnableAuditLogging
	}
	logLevel := current.LogLevel
	if req.LogLevel != "" {
		logLevel = req.LogLevel
	}

	updated, err := s.repo.UpdateSettings(ctx, enable, logLevel)
	if err != nil {
		return nil, apperr.Internal("Failed to update audit settings", err)
	}
	if s.cache != nil {
		if err = s.cache.Invalidate(settingsCacheKey); err != nil {
			s.log.Warn("settings cache invalidation failed",
				slog.String("op", op), sl.Err(err))
		}
	}
	s.log.Info("audit settings updated",
		slog.Bool("enable_audit_logging", updated.EnableAuditLogging),
		slog.String("log_level", updated.LogLevel))
	return updated, nil
}

// LogActivity записывает действие в журнал, если аудит включен.
// Никогда не возвращает ошибку вызывающей стороне: любой внутренний
// сбой проглатывается и лишь пишется в лог приложения.
func (s *Service) LogActivity(ctx context.Context, activity string, userID *string, userName, status string, details *string) {
	const op = "audit.LogActivity"

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("audit logging panicked",
				slog.String("op", op), slog.Any("panic", r))
		}
	}()

	settings, err := s.Settings(ctx)
	if err != nil {
		s.log.Error("failed to load audit settings",
			slog.String("op", op), sl.Err(err))
		return
	}
	if !settings.EnableAuditLogging {
		return
	}

	if userName == "" {
		userName = "Guest"
	}
	if _, err = s.repo.CreateLog(ctx, models.AuditLog{
		Activity: activity,
		UserID:   userID,
		UserName: userName,
		Status:   status,
		Details:  details,
	}); err != nil {
		s.log.Error("failed to write audit log entry",
			slog.String("op", op), sl.Err(err))
	}
}

// CreateEntry добавляет запись вручную. Возвращает nil без ошибки,
// если аудит выключен.
func (s *Service) CreateEntry(ctx context.Context, req models.AuditLogRequest) (*models.AuditLog, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.EnableAuditLogging {
		return nil, nil
	}

	entry := models.AuditLog{
		Activity: req.Activity,
		UserName: req.UserName,
		Status:   req.Status,
	}
	if req.UserID != "" {
		entry.UserID = &req.UserID
	}
	if req.Details != "" {
		entry.Details = &req.Details
	}
	created, err := s.repo.CreateLog(ctx, entry)
	if err != nil {
		return nil, apperr.Internal("Failed to create audit log entry", err)
	}
	return created, nil
}

// RecentLogs возвращает последние записи журнала, новые — первыми.
func (s *Service) RecentLogs(ctx context.Context) ([]*models.AuditLog, error) {
	logs, err := s.repo.ListLogs(ctx, defaultListLimit)
	if err != nil {
		return nil, apperr.Internal("Failed to list audit logs", err)
	}
	return logs, nil
}
