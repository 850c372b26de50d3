// Package apperr описывает типизированные ошибки рабочего процесса регистрации:
// ошибки валидации, конфликты уникальности и внутренние ошибки.
// Каждому виду соответствует свой HTTP-статус и машинный тип для тела ответа.
package apperr

import "errors"

// Kind — машинный тип ошибки, попадающий в поле error.type ответа.
type Kind string

const (
	// KindValidation — некорректные или отсутствующие входные данные, 400.
	KindValidation Kind = "VALIDATION_ERROR"
	// KindConflict — нарушение уникальности, 409.
	KindConflict Kind = "CONFLICT_ERROR"
	// KindUnauthorized — неуспешная аутентификация, 401.
	KindUnauthorized Kind = "UNAUTHORIZED_ERROR"
	// KindNotFound — запрошенный объект отсутствует, 404.
	KindNotFound Kind = "NOT_FOUND_ERROR"
	// KindInternal — ошибка хранилища или транзакции, 500.
	KindInternal Kind = "INTERNAL_ERROR"
)

// Error — ошибка с видом, сообщением для клиента и необязательной причиной.
type Error struct {
	Kind    Kind
	Message string
	Details string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Validation создает ошибку валидации входных данных.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Conflict создает ошибку конфликта уникальности.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Unauthorized создает ошибку аутентификации.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// NotFound создает ошибку отсутствия объекта.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Internal оборачивает внутреннюю ошибку; причина сохраняется для логов,
// а в Details попадает её текст.
func Internal(msg string, cause error) *Error {
	e := &Error{Kind: KindInternal, Message: msg, cause: cause}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// From приводит произвольную ошибку к *Error; нетипизированные ошибки
// считаются внутренними.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// Status возвращает HTTP-статус, соответствующий виду ошибки.
func Status(err error) int {
	switch From(err).Kind {
	case KindValidation:
		return 400
	case KindConflict:
		return 409
	case KindUnauthorized:
		return 401
	case KindNotFound:
		return 404
	default:
		return 500
	}
}
