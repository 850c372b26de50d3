package models

// RegisterRequest используется для приёма данных регистрации из JSON-запроса,
// прежде чем конвертировать их в User и Subscription. Обязательны только
// email, username и plan_id; пароль при отсутствии генерируется случайно.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"omitempty,min=6"`

	FirstName         string   `json:"firstName" validate:"omitempty,max=100"`
	LastName          string   `json:"lastName" validate:"omitempty,max=100"`
	PhoneNo           string   `json:"phoneNo" validate:"omitempty,max=20"`
	CRNumber          string   `json:"cr_number" validate:"omitempty,max=100"`
	TINNumber         string   `json:"tin_number" validate:"omitempty,max=100"`
	CompanyNameEng    string   `json:"company_name_eng" validate:"omitempty,max=500"`
	CompanyNameArabic string   `json:"company_name_arabic" validate:"omitempty,max=500"`
	BusinessType      string   `json:"business_type" validate:"omitempty,max=50"` // organization, individual, family business
	ZipCode           string   `json:"zip_code" validate:"omitempty,max=50"`
	IndustryTypes     []string `json:"industry_types"`
	Country           string   `json:"country" validate:"omitempty,max=100"`
	State             string   `json:"state" validate:"omitempty,max=100"`
	City              string   `json:"city" validate:"omitempty,max=100"`
	MembershipCategory string  `json:"membership_category" validate:"omitempty,max=50"`
	UserSource        string   `json:"user_source" validate:"omitempty,max=20"`

	PlanID           string `json:"plan_id" validate:"required"`
	PaymentMethod    string `json:"payment_method"`
	Notes            string `json:"notes"`
	SubscriptionType string `json:"subscription_type" validate:"omitempty,oneof=free paid"`

	IsNfcEnable bool   `json:"isNfcEnable"`
	NfcNumber   string `json:"nfcNumber"`

	DateOfBirth       string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Gender            string `json:"gender" validate:"omitempty,oneof=male female other"`
	DisplayName       string `json:"displayName" validate:"omitempty,max=100"`
	Bio               string `json:"bio"`
	Language          string `json:"language" validate:"omitempty,max=10"`
	EmailNotification *bool  `json:"emailNotification"`
	SMSAlert          bool   `json:"smsAlert"`
	PushNotification  *bool  `json:"pushNotification"`
	BuildingNumber    string `json:"buildingNumber" validate:"omitempty,max=50"`
	CompanySize       string `json:"companySize" validate:"omitempty,max=50"`
	Website           string `json:"website"`
	VATNumber         string `json:"vatNumber" validate:"omitempty,max=100"`
	GPSLocation       string `json:"gps_location"`
	Latitude          string `json:"latitude"`
	Longitude         string `json:"longitude"`
}

// AuditLogRequest — входные данные для ручного добавления записи аудита.
type AuditLogRequest struct {
	Activity string `json:"activity" validate:"required"`
	UserID   string `json:"userId"`
	UserName string `json:"userName" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=Success Failed"`
	Details  string `json:"details"`
}

// AuditSettingsRequest — входные данные для обновления настроек аудита.
// Не переданные поля сохраняют прежние значения.
type AuditSettingsRequest struct {
	EnableAuditLogging *bool  `json:"enableAuditLogging"`
	LogLevel           string `json:"logLevel"`
}
