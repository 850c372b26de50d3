package models

// Attachment — вложение исходящего письма.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// SendResult — результат отправки письма. Доставка не бросает ошибок:
// неуспех возвращается как значение и записывается вызывающей стороной.
type SendResult struct {
	Success bool
	Details string
}

// WelcomeEmail — данные приветственного письма после регистрации.
// GeneratedPassword — открытый текст пароля, существующий только в памяти.
type WelcomeEmail struct {
	User              *User
	Subscription      *Subscription // nil допустим для краевых бесплатных сценариев
	Plan              *Plan
	GeneratedPassword string
	IsFreePlan        bool
	SubscriptionType  string
	Attachment        *Attachment // Счет-фактура, если была сгенерирована
}
