// Package scheduler периодически находит подписки, истекающие завтра,
// и публикует напоминания в очередь уведомлений.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/NartechSolution/fatsAiBackend/internal/lib/sl"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
	"github.com/NartechSolution/fatsAiBackend/internal/rabbitmq"
)

// SubscriptionRepository отдает подписки, истекающие завтра.
type SubscriptionRepository interface {
	FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.ExpiryInfo, error)
}

// Service обходит истекающие подписки и ставит напоминания в очередь.
type Service struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo SubscriptionRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Run запускает периодический поиск истекающих подписок. Блокируется
// до отмены контекста.
func (s *Service) Run(ctx context.Context, channel *amqp.Channel, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.publishExpiring(ctx, channel)
		}
	}
}

func (s *Service) publishExpiring(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting service to find expiring subscriptions")
	entries, err := s.repo.FindSubscriptionsExpiringTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	for _, entry := range entries {
		err = rabbitmq.PublishMessage(channel, rabbitmq.ExchangeName, rabbitmq.RoutingKeyExpiring, entry)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
	s.log.Info("expiring subscriptions published", slog.Int("count", len(entries)))
}
