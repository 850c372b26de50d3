package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/NartechSolution/fatsAiBackend/internal/lib/apperr"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// userColumns — колонки, извлекаемые при чтении пользователя.
const userColumns = `id, email, username, password_hash,
	      COALESCE(first_name, ''), COALESCE(last_name, ''),
	      cr_number, tin_number, COALESCE(company_name_eng, ''),
	      is_nfc_enable, nfc_number, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var crNumber, tinNumber, nfcNumber sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.FirstName, &u.LastName, &crNumber, &tinNumber, &u.CompanyNameEng,
		&u.IsNfcEnable, &nfcNumber, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.CRNumber = crNumber.String
	u.TINNumber = tinNumber.String
	if nfcNumber.Valid {
		u.NfcNumber = &nfcNumber.String
	}
	return u, nil
}

// nullIfEmpty сохраняет NULL вместо пустой строки, чтобы незаполненные
// уникальные реквизиты не конфликтовали между собой.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// FindConflicts возвращает первого пользователя, совпадающего по email,
// username, cr_number или tin_number, либо nil, если совпадений нет.
func (s *Storage) FindConflicts(ctx context.Context, email, username, crNumber, tinNumber string) (*models.User, error) {
	const op = "storage.FindConflicts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1 OR username = $2
			     OR ($3::TEXT IS NOT NULL AND cr_number = $3)
			     OR ($4::TEXT IS NOT NULL AND tin_number = $4)
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, email, username,
		nullIfEmpty(crNumber), nullIfEmpty(tinNumber))
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindNfcEnabled возвращает пользователя с включённым NFC, владеющего
// номером карты, либо nil. Уникальность номера действует только среди
// пользователей с включённым NFC.
func (s *Storage) FindNfcEnabled(ctx context.Context, nfcNumber string) (*models.User, error) {
	const op = "storage.FindNfcEnabled"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE nfc_number = $1 AND is_nfc_enable = TRUE
			  LIMIT 1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, nfcNumber))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindByEmail возвращает пользователя по email, либо nil, если не найден.
func (s *Storage) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.FindByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindByNfcNumber возвращает пользователя по номеру NFC-карты без учета
// признака включения, либо nil.
func (s *Storage) FindByNfcNumber(ctx context.Context, nfcNumber string) (*models.User, error) {
	const op = "storage.FindByNfcNumber"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE nfc_number = $1 LIMIT 1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, nfcNumber))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его id.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// CreateUserWithSubscription в одной транзакции создает пользователя
// и его подписку. Нарушение уникальности, всплывшее внутри транзакции
// (проигранная гонка с предварительной проверкой), отображается в ту же
// ошибку конфликта, что и проверка.
func (s *Storage) CreateUserWithSubscription(ctx context.Context, user models.User, sub models.Subscription) (*models.User, *models.Subscription, error) {
	const op = "storage.CreateUserWithSubscription"
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var nfcNumber any
	if user.NfcNumber != nil {
		nfcNumber = *user.NfcNumber
	}
	userQuery := `INSERT INTO users (email, username, password_hash, first_name, last_name,
			      phone_no, cr_number, tin_number, company_name_eng, company_name_arabic,
			      business_type, zip_code, industry_types, country, state, city,
			      membership_category, user_source, is_nfc_enable, nfc_number,
			      date_of_birth, gender, display_name, bio, language,
			      email_notification, sms_alert, push_notification,
			      building_number, company_size, website, vat_number,
			      gps_location, latitude, longitude)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			      $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29,
			      $30, $31, $32, $33, $34, $35)
			  RETURNING id, created_at`
	created := user
	err = tx.QueryRowContext(ctx, userQuery,
		user.Email, user.Username, user.PasswordHash, user.FirstName, user.LastName,
		user.PhoneNo, nullIfEmpty(user.CRNumber), nullIfEmpty(user.TINNumber),
		user.CompanyNameEng, user.CompanyNameArabic,
		user.BusinessType, user.ZipCode, user.IndustryTypes, user.Country, user.State, user.City,
		user.MembershipCategory, user.UserSource, user.IsNfcEnable, nfcNumber,
		user.DateOfBirth, user.Gender, user.DisplayName, user.Bio, user.Language,
		user.EmailNotification, user.SMSAlert, user.PushNotification,
		user.BuildingNumber, user.CompanySize, user.Website, nullIfEmpty(user.VATNumber),
		user.GPSLocation, user.Latitude, user.Longitude,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return nil, nil, conflictFromConstraint(constraint)
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	subQuery := `INSERT INTO user_subscriptions (user_id, plan_id, status, payment_status,
			      amount_paid, payment_method, transaction_id, started_at, expires_at, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	createdSub := sub
	createdSub.UserID = created.ID
	err = tx.QueryRowContext(ctx, subQuery,
		created.ID, sub.PlanID, sub.Status, sub.PaymentStatus,
		sub.AmountPaid, sub.PaymentMethod, sub.TransactionID,
		sub.StartedAt, sub.ExpiresAt, sub.Notes,
	).Scan(&createdSub.ID)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return nil, nil, conflictFromConstraint(constraint)
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, &createdSub, nil
}

// conflictFromConstraint переводит имя нарушенного ограничения
// в сообщение конфликта для клиента.
func conflictFromConstraint(constraint string) error {
	switch constraint {
	case "users_email_key":
		return apperr.Conflict("Email already exists")
	case "users_username_key":
		return apperr.Conflict("Username already exists")
	case "users_cr_number_key":
		return apperr.Conflict("CR number already exists")
	case "users_tin_number_key":
		return apperr.Conflict("TIN number already exists")
	case "users_nfc_number_enabled_idx":
		return apperr.Conflict("NFC number already in use")
	default:
		return apperr.Conflict("Duplicate value for unique field")
	}
}
