package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// FindActiveByUser возвращает активную подписку пользователя, либо nil.
func (s *Storage) FindActiveByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	const op = "storage.FindActiveByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_id, status, payment_status, amount_paid,
			      payment_method, transaction_id, started_at, expires_at, notes
			  FROM user_subscriptions
			  WHERE user_id = $1 AND status = 'active'
			  ORDER BY started_at DESC
			  LIMIT 1`
	sub := &models.Subscription{}
	var notes sql.NullString
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(
		&sub.ID, &sub.UserID, &sub.PlanID, &sub.Status, &sub.PaymentStatus,
		&sub.AmountPaid, &sub.PaymentMethod, &sub.TransactionID,
		&sub.StartedAt, &sub.ExpiresAt, &notes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if notes.Valid {
		sub.Notes = &notes.String
	}
	return sub, nil
}

// FindSubscriptionsExpiringTomorrow находит активные подписки, истекающие
// завтра, для отправки напоминаний.
func (s *Storage) FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.ExpiryInfo, error) {
	const op = "storage.FindSubscriptionsExpiringTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.email, u.username, COALESCE(p.display_name, p.name), us.expires_at
			  FROM user_subscriptions us
			  JOIN users u ON u.id = us.user_id
			  JOIN subscription_plans p ON p.id = us.plan_id
			  WHERE us.status = 'active'
			    AND us.expires_at::DATE = CURRENT_DATE + INTERVAL '1 day'`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.ExpiryInfo
	for rows.Next() {
		var info models.ExpiryInfo
		if err = rows.Scan(&info.Email, &info.Username, &info.PlanName, &info.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
