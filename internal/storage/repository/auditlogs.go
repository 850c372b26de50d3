package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// GetOrCreateSettings возвращает единственную строку настроек аудита,
// создавая её со значениями по умолчанию при отсутствии. Параллельное
// первое чтение безопасно: выборка детерминирована по минимальному id.
func (s *Storage) GetOrCreateSettings(ctx context.Context) (*models.AuditLogSettings, error) {
	const op = "storage.GetOrCreateSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	settings := &models.AuditLogSettings{}
	selectQuery := `SELECT id, enable_audit_logging, log_level
			  FROM audit_log_settings
			  ORDER BY id
			  LIMIT 1`
	err := s.DB.QueryRowContext(ctx, selectQuery).Scan(
		&settings.ID, &settings.EnableAuditLogging, &settings.LogLevel)
	if err == nil {
		return settings, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	insertQuery := `INSERT INTO audit_log_settings (enable_audit_logging, log_level)
			  VALUES (TRUE, 'All Activities')
			  RETURNING id, enable_audit_logging, log_level`
	err = s.DB.QueryRowContext(ctx, insertQuery).Scan(
		&settings.ID, &settings.EnableAuditLogging, &settings.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return settings, nil
}

// UpdateSettings обновляет строку настроек аудита и возвращает её.
func (s *Storage) UpdateSettings(ctx context.Context, enable bool, logLevel string) (*models.AuditLogSettings, error) {
	const op = "storage.UpdateSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	current, err := s.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated := &models.AuditLogSettings{}
	query := `UPDATE audit_log_settings
			  SET enable_audit_logging = $1, log_level = $2
			  WHERE id = $3
			  RETURNING id, enable_audit_logging, log_level`
	err = s.DB.QueryRowContext(ctx, query, enable, logLevel, current.ID).Scan(
		&updated.ID, &updated.EnableAuditLogging, &updated.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// CreateLog добавляет запись в журнал аудита и возвращает её.
func (s *Storage) CreateLog(ctx context.Context, entry models.AuditLog) (*models.AuditLog, error) {
	const op = "storage.CreateLog"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	created := entry
	query := `INSERT INTO audit_logs (activity, user_id, user_name, status, details)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, timestamp`
	err := s.DB.QueryRowContext(ctx, query,
		entry.Activity, entry.UserID, entry.UserName, entry.Status, entry.Details,
	).Scan(&created.ID, &created.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// ListLogs возвращает последние записи журнала, отсортированные по времени.
func (s *Storage) ListLogs(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	const op = "storage.ListLogs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, activity, user_id, user_name, status, details, timestamp
			  FROM audit_logs
			  ORDER BY timestamp DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.AuditLog
	for rows.Next() {
		var entry models.AuditLog
		var userID, details sql.NullString
		if err = rows.Scan(&entry.ID, &entry.Activity, &userID, &entry.UserName,
			&entry.Status, &details, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if userID.Valid {
			entry.UserID = &userID.String
		}
		if details.Valid {
			entry.Details = &details.String
		}
		result = append(result, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
