package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// FindActivePlan возвращает активный тарифный план с включёнными услугами,
// либо nil, если план не существует или выключен.
func (s *Storage) FindActivePlan(ctx context.Context, planID string) (*models.Plan, error) {
	const op = "storage.FindActivePlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	// Сравнение по тексту: произвольная строка из запроса не должна
	// приводить к ошибке приведения к uuid.
	query := `SELECT id, name, COALESCE(display_name, ''), price, billing_cycle, is_active
			  FROM subscription_plans
			  WHERE id::TEXT = $1 AND is_active = TRUE`
	p := &models.Plan{}
	err := s.DB.QueryRowContext(ctx, query, planID).Scan(
		&p.ID, &p.Name, &p.DisplayName, &p.Price, &p.BillingCycle, &p.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	servicesQuery := `SELECT srv.id, srv.name, COALESCE(srv.display_name, ''),
			      COALESCE(srv.description, ''), COALESCE(srv.service_type, ''),
			      COALESCE(srv.icon, '')
			  FROM plan_services ps
			  JOIN services srv ON srv.id = ps.service_id
			  WHERE ps.plan_id = $1 AND ps.is_included = TRUE`
	rows, err := s.DB.QueryContext(ctx, servicesQuery, planID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		var svc models.PlanService
		if err = rows.Scan(&svc.ID, &svc.Name, &svc.DisplayName,
			&svc.Description, &svc.ServiceType, &svc.Icon); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.Services = append(p.Services, svc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
