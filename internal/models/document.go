package models

import "time"

// MemberDocument — сгенерированный артефакт (счет-фактура), привязанный
// к транзакции. Создаётся только для платных планов и только после
// успешной генерации PDF, вне транзакции регистрации.
type MemberDocument struct {
	ID            int64
	UserID        string
	TransactionID string
	DocumentPath  string // Публичный относительный путь к файлу
	DocType       string // registration_invoice
	Status        string
	CreatedAt     time.Time
}
