package models

import "time"

// Subscription связывает пользователя с тарифным планом на момент регистрации.
// На одну успешную регистрацию создаётся ровно одна подписка.
type Subscription struct {
	ID            int64
	UserID        string
	PlanID        string
	Status        string  // active, pending или inactive
	PaymentStatus string  // paid, pending или failed
	AmountPaid    float64 // 0 для бесплатных планов
	PaymentMethod string  // "free" для бесплатных планов
	TransactionID string  // Случайный идентификатор, связывающий счет и оплату
	StartedAt     time.Time
	ExpiresAt     time.Time // Ровно год от StartedAt
	Notes         *string
}

// ExpiryInfo — данные для напоминания об истекающей подписке,
// публикуемые планировщиком в очередь уведомлений.
type ExpiryInfo struct {
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	PlanName  string    `json:"plan_name"`
	ExpiresAt time.Time `json:"expires_at"`
}
