package rabbitmq

// ExchangeName — обменник уведомлений подписок.
const ExchangeName = "notifications"

const (
	// QueueExpiring — очередь напоминаний об истекающих подписках.
	QueueExpiring = "notification.expiring"
	// RoutingKeyExpiring — ключ маршрутизации напоминаний.
	RoutingKeyExpiring = "expiring"
)

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди воркеров уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueExpiring, RoutingKey: RoutingKeyExpiring},
	}
}
