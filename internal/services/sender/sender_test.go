package sender_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NartechSolution/fatsAiBackend/internal/lib/smtp"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
	"github.com/NartechSolution/fatsAiBackend/internal/services/sender"
)

// Фейковый SMTP клиент, запоминающий отправленное письмо
type clientFake struct {
	from    string
	rcpts   []string
	message bytes.Buffer
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func (c *clientFake) Mail(from string) error { c.from = from; return nil }
func (c *clientFake) Rcpt(to string) error   { c.rcpts = append(c.rcpts, to); return nil }
func (c *clientFake) Data() (io.WriteCloser, error) {
	return nopWriteCloser{&c.message}, nil
}
func (c *clientFake) Quit() error  { return nil }
func (c *clientFake) Close() error { return nil }

// Фейковый транспорт
type transportFake struct {
	client *clientFake
	err    error
}

func (t *transportFake) Connect() (smtp.Client, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.client, nil
}

func (t *transportFake) GetSMTPUser() string { return "noreply@iotsolutions.com" }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func welcomeMessage(isFree bool, attachment *models.Attachment) models.WelcomeEmail {
	return models.WelcomeEmail{
		User: &models.User{
			Email:     "member@example.com",
			Username:  "member1",
			FirstName: "Jane",
			LastName:  "Doe",
		},
		Subscription: &models.Subscription{
			TransactionID: "AB12CD34EF56AB12CD34",
			ExpiresAt:     time.Date(2027, 8, 31, 0, 0, 0, 0, time.UTC),
		},
		Plan:              &models.Plan{Name: "business-pro", DisplayName: "Business Pro"},
		GeneratedPassword: "s3cretPW",
		IsFreePlan:        isFree,
		Attachment:        attachment,
	}
}

func TestSendWelcome_PaidSubject(t *testing.T) {
	client := &clientFake{}
	svc := sender.New(&transportFake{client: client}, newNoopLogger())

	result := svc.SendWelcome(context.Background(), welcomeMessage(false, nil))
	require.True(t, result.Success)

	msg := client.message.String()
	assert.Equal(t, "noreply@iotsolutions.com", client.from)
	assert.Equal(t, []string{"member@example.com"}, client.rcpts)
	assert.Contains(t, msg, "Subject: Welcome to IoT Solutions - Registration Confirmation")
	assert.Contains(t, msg, "s3cretPW")
	assert.Contains(t, msg, "Business Pro")
}

func TestSendWelcome_FreeSubject(t *testing.T) {
	client := &clientFake{}
	svc := sender.New(&transportFake{client: client}, newNoopLogger())

	result := svc.SendWelcome(context.Background(), welcomeMessage(true, nil))
	require.True(t, result.Success)

	msg := client.message.String()
	assert.Contains(t, msg, "Subject: Welcome to IoT Solutions - Your Free Account is Active!")
	assert.NotContains(t, msg, "multipart/mixed")
}

func TestSendWelcome_WithAttachment(t *testing.T) {
	client := &clientFake{}
	svc := sender.New(&transportFake{client: client}, newNoopLogger())

	attachment := &models.Attachment{
		Filename:    "Invoice-Acme-AB12-1.pdf",
		Content:     []byte("%PDF-1.4 fake"),
		ContentType: "application/pdf",
	}
	result := svc.SendWelcome(context.Background(), welcomeMessage(false, attachment))
	require.True(t, result.Success)

	msg := client.message.String()
	assert.Contains(t, msg, "multipart/mixed")
	assert.Contains(t, msg, `attachment; filename="Invoice-Acme-AB12-1.pdf"`)
	assert.Contains(t, msg, "Content-Transfer-Encoding: base64")
}

func TestSendWelcome_TransportFailure(t *testing.T) {
	svc := sender.New(&transportFake{err: io.ErrUnexpectedEOF}, newNoopLogger())

	result := svc.SendWelcome(context.Background(), welcomeMessage(true, nil))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Details)
}

func TestSendExpiryReminder(t *testing.T) {
	client := &clientFake{}
	svc := sender.New(&transportFake{client: client}, newNoopLogger())

	body, err := json.Marshal(models.ExpiryInfo{
		Email:     "member@example.com",
		Username:  "member1",
		PlanName:  "Business Pro",
		ExpiresAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendExpiryReminder(body))

	msg := client.message.String()
	assert.Contains(t, msg, "Subject: Your IoT Solutions subscription expires tomorrow")
	assert.Contains(t, msg, "member1")
	assert.Contains(t, msg, "01 Sep 2026")
}

func TestSendExpiryReminder_BadPayload(t *testing.T) {
	svc := sender.New(&transportFake{client: &clientFake{}}, newNoopLogger())
	assert.Error(t, svc.SendExpiryReminder([]byte("not json")))
}
