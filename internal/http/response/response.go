// Package response формирует унифицированные JSON-ответы HTTP-обработчиков:
// успешные тела с данными и структурированные ошибки с машинным типом,
// кодом и деталями.
package response

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/NartechSolution/fatsAiBackend/internal/lib/apperr"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// ErrorBody — структурированное описание ошибки в теле ответа.
type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
	Details string `json:"details,omitempty"`
}

// Response описывает стандартную структуру JSON-ответа сервера.
type Response struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	User    any        `json:"user,omitempty"`
	Token   string     `json:"token,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// OK возвращает успешный Response с сообщением и данными.
func OK(message string, data any) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Fail строит тело ошибки из произвольной ошибки сервиса.
// Нетипизированные ошибки отдаются как внутренние без деталей причины.
func Fail(err error) Response {
	appErr := apperr.From(err)
	return Response{
		Success: false,
		Message: appErr.Message,
		Error: &ErrorBody{
			Message: appErr.Message,
			Type:    string(appErr.Kind),
			Code:    apperr.Status(err),
			Details: appErr.Details,
		},
	}
}

// ValidationError формирует ответ 400 на основе ошибок валидации.
// Каждое нарушение превращается в человеко-читаемый текст, объединённый
// через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has an unsupported value", err.Field()))
		case "datetime":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a date in format 2006-01-02", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	message := strings.Join(errsMsgs, ", ")
	return Response{
		Success: false,
		Message: message,
		Error: &ErrorBody{
			Message: message,
			Type:    string(apperr.KindValidation),
			Code:    400,
		},
	}
}

// UserView — публичное представление пользователя без хэша пароля.
type UserView struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	FirstName   string  `json:"firstName,omitempty"`
	LastName    string  `json:"lastName,omitempty"`
	CompanyName string  `json:"company_name_eng,omitempty"`
	IsNfcEnable bool    `json:"isNfcEnable"`
	NfcNumber   *string `json:"nfcNumber,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// NewUserView строит представление пользователя для тела ответа.
func NewUserView(u *models.User) UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		CompanyName: u.CompanyNameEng,
		IsNfcEnable: u.IsNfcEnable,
		NfcNumber:   u.NfcNumber,
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
