package models

import "time"

// AuditLog — неизменяемая запись журнала аудита. Записи никогда
// не редактируются и не удаляются этим сервисом.
type AuditLog struct {
	ID        int64     `json:"id"`
	Activity  string    `json:"activity"` // Обычно "<METHOD> <path>" или именованное событие
	UserID    *string   `json:"userId"`   // Денормализованный id пользователя, без внешнего ключа
	UserName  string    `json:"userName"`
	Status    string    `json:"status"` // Success или Failed
	Details   *string   `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// AuditLogSettings — единственная строка настроек, управляющая всей
// подсистемой аудита. При отсутствии создаётся с значениями по умолчанию.
type AuditLogSettings struct {
	ID                 int64  `json:"id"`
	EnableAuditLogging bool   `json:"enableAuditLogging"`
	LogLevel           string `json:"logLevel"`
}
