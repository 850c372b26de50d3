package models

// SideEffectError — структурированное описание неуспеха побочного шага.
type SideEffectError struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Type    string `json:"type"` // PDF_GENERATION_ERROR или EMAIL_SENDING_ERROR
}

// SideEffectResult — результат необязательного шага регистрации
// (генерация PDF, отправка письма). Неуспех фиксируется как данные
// и не прерывает рабочий процесс.
type SideEffectResult struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Error   *SideEffectError `json:"error"`
}

// SideEffectOK возвращает успешный результат с необязательным сообщением.
func SideEffectOK(message string) SideEffectResult {
	return SideEffectResult{Success: true, Message: message}
}

// SideEffectFail возвращает неуспешный результат заданного типа.
func SideEffectFail(errType, message, details string) SideEffectResult {
	return SideEffectResult{
		Success: false,
		Error: &SideEffectError{
			Message: message,
			Details: details,
			Type:    errType,
		},
	}
}
