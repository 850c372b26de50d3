// Package models содержит доменные структуры бэк-офиса: пользователей,
// тарифные планы, подписки, документы и журнал аудита, а также
// вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного участника с учётными
// и бизнес-реквизитами компании.
type User struct {
	ID                string     // Уникальный идентификатор пользователя (uuid)
	Email             string     // Электронная почта (уникальная)
	Username          string     // Имя пользователя (уникальное)
	PasswordHash      string     // Хэш пароля пользователя
	FirstName         string
	LastName          string
	PhoneNo           string
	CRNumber          string // Номер коммерческой регистрации (уникальный, если задан)
	TINNumber         string // Налоговый номер (уникальный, если задан)
	CompanyNameEng    string
	CompanyNameArabic string
	BusinessType      string // organization, individual или family business
	ZipCode           string
	IndustryTypes     string // JSON-массив строк в текстовом виде
	Country           string
	State             string
	City              string
	MembershipCategory string
	UserSource        string
	IsNfcEnable       bool    // Включен ли вход по NFC-карте
	NfcNumber         *string // Номер NFC-карты; уникален только среди включённых
	DateOfBirth       *time.Time
	Gender            string
	DisplayName       string
	Bio               string
	Language          string
	EmailNotification bool
	SMSAlert          bool
	PushNotification  bool
	BuildingNumber    string
	CompanySize       string
	Website           string
	VATNumber         string
	GPSLocation       string
	Latitude          string
	Longitude         string
	CreatedAt         time.Time
}
