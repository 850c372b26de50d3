// Package registration реализует рабочий процесс регистрации участника:
// проверки уникальности, создание пользователя с подпиской, выставление
// счёта, приветственное письмо и выдачу токена доступа.
package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/NartechSolution/fatsAiBackend/internal/lib/apperr"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/invoice"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/jwt"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/password"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/sl"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/txid"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// invoiceSubdir — каталог счетов внутри области документов.
const invoiceSubdir = "documents/MemberRegInvoice"

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	// FindConflicts возвращает пользователя, совпадающего по любому
	// уникальному реквизиту, либо nil.
	FindConflicts(ctx context.Context, email, username, crNumber, tinNumber string) (*models.User, error)

	// FindNfcEnabled возвращает NFC-включённого владельца номера карты, либо nil.
	FindNfcEnabled(ctx context.Context, nfcNumber string) (*models.User, error)

	// CreateUserWithSubscription атомарно создает пользователя и подписку.
	CreateUserWithSubscription(ctx context.Context, user models.User, sub models.Subscription) (*models.User, *models.Subscription, error)
}

// PlanRepository описывает контракт каталога тарифных планов.
type PlanRepository interface {
	// FindActivePlan возвращает активный план с услугами, либо nil.
	FindActivePlan(ctx context.Context, planID string) (*models.Plan, error)
}

// DocumentRepository описывает контракт хранилища документов участника.
type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc models.MemberDocument) error
}

// Notifier отправляет приветственное письмо. Неуспех доставки
// возвращается как значение, не как ошибка.
type Notifier interface {
	SendWelcome(ctx context.Context, msg models.WelcomeEmail) models.SendResult
}

// Service связывает шаги регистрации в единый рабочий процесс.
type Service struct {
	users        UserRepository
	plans        PlanRepository
	documents    DocumentRepository
	renderer     invoice.Renderer
	notifier     Notifier
	jwtMaker     jwt.Maker
	log          *slog.Logger
	documentsDir string
}

// New создает новый экземпляр Service.
func New(users UserRepository, plans PlanRepository, documents DocumentRepository,
	renderer invoice.Renderer, notifier Notifier, jwtMaker jwt.Maker,
	log *slog.Logger, documentsDir string) *Service {
	return &Service{
		users:        users,
		plans:        plans,
		documents:    documents,
		renderer:     renderer,
		notifier:     notifier,
		jwtMaker:     jwtMaker,
		log:          log,
		documentsDir: documentsDir,
	}
}

// Result — итог успешной регистрации, включая результаты побочных шагов.
type Result struct {
	User             *models.User
	Subscription     *models.Subscription
	Plan             *models.Plan
	TransactionID    string
	IsFreePlan       bool
	SubscriptionType string // Значение флага запроса, free по умолчанию
	PDFGeneration    models.SideEffectResult
	EmailSending     models.SideEffectResult
	InvoiceGenerated bool
	Token            string
}

// Register проводит полную регистрацию участника. Ошибки проверок и
// создания прерывают процесс; неуспех генерации PDF или отправки письма
// фиксируется в Result и не прерывает его.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*Result, error) {
	const op = "registration.Register"
	log := s.log.With(slog.String("op", op), slog.String("email", req.Email))

	existing, err := s.users.FindConflicts(ctx, req.Email, req.Username, req.CRNumber, req.TINNumber)
	if err != nil {
		log.Error("failed to check uniqueness", sl.Err(err))
		return nil, apperr.Internal("Failed to check user uniqueness", err)
	}
	if existing != nil {
		return nil, apperr.Conflict(conflictMessage(existing, req))
	}

	if req.IsNfcEnable && req.NfcNumber != "" {
		owner, err := s.users.FindNfcEnabled(ctx, req.NfcNumber)
		if err != nil {
			log.Error("failed to check nfc uniqueness", sl.Err(err))
			return nil, apperr.Internal("Failed to check NFC uniqueness", err)
		}
		if owner != nil {
			return nil, apperr.Conflict("NFC number already in use")
		}
	}

	rawPassword := req.Password
	if rawPassword == "" {
		rawPassword, err = password.Generate(8)
		if err != nil {
			log.Error("failed to generate password", sl.Err(err))
			return nil, apperr.Internal("Failed to generate password", err)
		}
	}
	hash, err := password.GetHash(rawPassword)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		return nil, apperr.Internal("Failed to process password", err)
	}

	plan, err := s.plans.FindActivePlan(ctx, req.PlanID)
	if err != nil {
		log.Error("failed to load plan", sl.Err(err))
		return nil, apperr.Internal("Failed to load subscription plan", err)
	}
	if plan == nil {
		return nil, apperr.Validation("Invalid or inactive subscription plan")
	}
	// Бесплатность определяется флагом запроса (по умолчанию free)
	// или нулевой ценой плана, не самим планом.
	subscriptionType := req.SubscriptionType
	if subscriptionType == "" {
		subscriptionType = "free"
	}
	isFreePlan := subscriptionType == "free" || plan.Price == 0
	amountPaid := plan.Price
	if isFreePlan {
		amountPaid = 0
	}

	transactionID, err := txid.New(10)
	if err != nil {
		log.Error("failed to generate transaction id", sl.Err(err))
		return nil, apperr.Internal("Failed to generate transaction id", err)
	}

	now := time.Now().UTC()
	sub := models.Subscription{
		PlanID:        plan.ID,
		Status:        "active",
		PaymentStatus: paymentStatus(isFreePlan),
		AmountPaid:    amountPaid,
		PaymentMethod: paymentMethod(req.PaymentMethod, isFreePlan),
		TransactionID: transactionID,
		StartedAt:     now,
		ExpiresAt:     now.AddDate(1, 0, 0),
	}
	if req.Notes != "" {
		sub.Notes = &req.Notes
	}

	created, createdSub, err := s.users.CreateUserWithSubscription(ctx, buildUser(req, hash), sub)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		log.Error("failed to create user with subscription", sl.Err(err))
		return nil, apperr.Internal("Failed to create user", err)
	}
	log = log.With(slog.String("user_id", created.ID))
	log.Info("user registered", slog.String("plan", plan.Label()),
		slog.Bool("is_free_plan", isFreePlan))

	result := &Result{
		User:             created,
		Subscription:     createdSub,
		Plan:             plan,
		TransactionID:    transactionID,
		IsFreePlan:       isFreePlan,
		SubscriptionType: subscriptionType,
	}

	var attachment *models.Attachment
	if isFreePlan {
		result.PDFGeneration = models.SideEffectOK("PDF not required for free plan")
	} else {
		result.PDFGeneration, attachment = s.generateInvoice(ctx, log, created, createdSub, plan, transactionID)
		result.InvoiceGenerated = result.PDFGeneration.Success
	}

	sendResult := s.notifier.SendWelcome(ctx, models.WelcomeEmail{
		User:              created,
		Subscription:      createdSub,
		Plan:              plan,
		GeneratedPassword: rawPassword,
		IsFreePlan:        isFreePlan,
		SubscriptionType:  subscriptionType,
		Attachment:        attachment,
	})
	if sendResult.Success {
		result.EmailSending = models.SideEffectOK("Welcome email sent successfully")
	} else {
		log.Error("failed to send welcome email", slog.String("details", sendResult.Details))
		result.EmailSending = models.SideEffectFail("EMAIL_SENDING_ERROR",
			"Failed to send welcome email", sendResult.Details)
	}

	token, err := s.jwtMaker.GenerateToken(created.ID, created.Email)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		return nil, apperr.Internal("Failed to generate access token", err)
	}
	result.Token = token
	return result, nil
}

// generateInvoice рендерит PDF-счет, сохраняет файл в области документов
// и записывает MemberDocument. Любой неуспех возвращается как результат.
func (s *Service) generateInvoice(ctx context.Context, log *slog.Logger,
	user *models.User, sub *models.Subscription, plan *models.Plan,
	transactionID string) (models.SideEffectResult, *models.Attachment) {

	content, err := s.renderer.Render(invoice.Data{
		User:          user,
		Subscription:  sub,
		Plan:          plan,
		Company:       invoice.DefaultCompanyDetails(),
		TransactionID: transactionID,
	})
	if err != nil {
		log.Error("failed to render invoice", sl.Err(err))
		return models.SideEffectFail("PDF_GENERATION_ERROR",
			"Failed to generate invoice PDF", err.Error()), nil
	}

	dir := filepath.Join(s.documentsDir, filepath.FromSlash(invoiceSubdir))
	if err = os.MkdirAll(dir, 0o755); err != nil {
		log.Error("failed to create invoice directory", sl.Err(err))
		return models.SideEffectFail("PDF_GENERATION_ERROR",
			"Failed to generate invoice PDF", err.Error()), nil
	}

	holder := user.CompanyNameEng
	if holder == "" {
		holder = "User"
	}
	filename := fmt.Sprintf("Invoice-%s-%s-%d.pdf",
		sanitizeFilename(holder), transactionID, time.Now().UnixMilli())
	if err = os.WriteFile(filepath.Join(dir, filename), content, 0o644); err != nil {
		log.Error("failed to write invoice file", sl.Err(err))
		return models.SideEffectFail("PDF_GENERATION_ERROR",
			"Failed to generate invoice PDF", err.Error()), nil
	}

	publicPath := "/uploads/" + invoiceSubdir + "/" + filename
	if err = s.documents.CreateDocument(ctx, models.MemberDocument{
		UserID:        user.ID,
		TransactionID: transactionID,
		DocumentPath:  publicPath,
		DocType:       "registration_invoice",
		Status:        "active",
	}); err != nil {
		// Файл уже сгенерирован, письмо получит вложение в любом случае.
		log.Error("failed to persist member document", sl.Err(err))
	}

	return models.SideEffectOK("Invoice PDF generated successfully"), &models.Attachment{
		Filename:    filename,
		Content:     content,
		ContentType: "application/pdf",
	}
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

func sanitizeFilename(s string) string {
	return nonAlphanumeric.ReplaceAllString(s, "_")
}

func paymentStatus(isFreePlan bool) string {
	if isFreePlan {
		return "paid"
	}
	return "pending"
}

func paymentMethod(requested string, isFreePlan bool) string {
	if isFreePlan {
		return "free"
	}
	if requested != "" {
		return requested
	}
	return "bank_transfer"
}

// conflictMessage перечисляет все совпавшие уникальные реквизиты,
// а не только первый.
func conflictMessage(existing *models.User, req models.RegisterRequest) string {
	var parts []string
	if existing.Email == req.Email {
		parts = append(parts, "Email already exists")
	}
	if existing.Username == req.Username {
		parts = append(parts, "Username already exists")
	}
	if req.CRNumber != "" && existing.CRNumber == req.CRNumber {
		parts = append(parts, "CR number already exists")
	}
	if req.TINNumber != "" && existing.TINNumber == req.TINNumber {
		parts = append(parts, "TIN number already exists")
	}
	if len(parts) == 0 {
		return "User already exists"
	}
	return strings.Join(parts, ", ")
}

func buildUser(req models.RegisterRequest, passwordHash string) models.User {
	user := models.User{
		Email:              req.Email,
		Username:           req.Username,
		PasswordHash:       passwordHash,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		PhoneNo:            req.PhoneNo,
		CRNumber:           req.CRNumber,
		TINNumber:          req.TINNumber,
		CompanyNameEng:     req.CompanyNameEng,
		CompanyNameArabic:  req.CompanyNameArabic,
		BusinessType:       req.BusinessType,
		ZipCode:            req.ZipCode,
		Country:            req.Country,
		State:              req.State,
		City:               req.City,
		MembershipCategory: req.MembershipCategory,
		UserSource:         req.UserSource,
		IsNfcEnable:        req.IsNfcEnable,
		Gender:             req.Gender,
		DisplayName:        req.DisplayName,
		Bio:                req.Bio,
		Language:           req.Language,
		EmailNotification:  true,
		SMSAlert:           req.SMSAlert,
		PushNotification:   true,
		BuildingNumber:     req.BuildingNumber,
		CompanySize:        req.CompanySize,
		Website:            req.Website,
		VATNumber:          req.VATNumber,
		GPSLocation:        req.GPSLocation,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
	}
	if req.EmailNotification != nil {
		user.EmailNotification = *req.EmailNotification
	}
	if req.PushNotification != nil {
		user.PushNotification = *req.PushNotification
	}
	if req.NfcNumber != "" {
		nfc := req.NfcNumber
		user.NfcNumber = &nfc
	}
	if len(req.IndustryTypes) > 0 {
		if raw, err := json.Marshal(req.IndustryTypes); err == nil {
			user.IndustryTypes = string(raw)
		}
	}
	if req.DateOfBirth != "" {
		// Формат уже проверен валидатором запроса.
		if dob, err := time.Parse("2006-01-02", req.DateOfBirth); err == nil {
			user.DateOfBirth = &dob
		}
	}
	return user
}
