// Package sender отправляет исходящую почту: приветственные письма
// после регистрации и напоминания об истекающих подписках.
package sender

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/NartechSolution/fatsAiBackend/internal/lib/sl"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/smtp"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

const (
	subjectWelcomeFree = "Welcome to IoT Solutions - Your Free Account is Active!"
	subjectWelcomePaid = "Welcome to IoT Solutions - Registration Confirmation"
	subjectExpiry      = "Your IoT Solutions subscription expires tomorrow"
)

// Service отправляет письма через SMTP транспорт.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Welcome to IoT Solutions{{if .Name}}, {{.Name}}{{end}}!</h2>
  {{if .IsFreePlan}}
  <p>Your free account is active and ready to use.</p>
  {{else}}
  <p>Your registration has been received. Your invoice is attached to this email.</p>
  {{end}}
  <p>Your login credentials:</p>
  <ul>
    <li><b>Email:</b> {{.Email}}</li>
    <li><b>Username:</b> {{.Username}}</li>
    <li><b>Password:</b> {{.Password}}</li>
  </ul>
  {{if .PlanName}}
  <p>Subscription plan: <b>{{.PlanName}}</b>{{if .TransactionID}} (transaction {{.TransactionID}}){{end}}.</p>
  {{end}}
  {{if .ExpiresAt}}
  <p>Your subscription is valid until {{.ExpiresAt}}.</p>
  {{end}}
  <p>Please change your password after the first login.</p>
  <p>— IoT Solutions Company</p>
</body>
</html>`))

type welcomeData struct {
	Name          string
	Email         string
	Username      string
	Password      string
	PlanName      string
	TransactionID string
	ExpiresAt     string
	IsFreePlan    bool
}

// SendWelcome отправляет приветственное письмо. Неуспех доставки
// возвращается как значение и не прерывает регистрацию.
func (s *Service) SendWelcome(_ context.Context, msg models.WelcomeEmail) models.SendResult {
	const op = "sender.SendWelcome"

	data := welcomeData{
		Email:      msg.User.Email,
		Username:   msg.User.Username,
		Password:   msg.GeneratedPassword,
		IsFreePlan: msg.IsFreePlan,
	}
	data.Name = strings.TrimSpace(msg.User.FirstName + " " + msg.User.LastName)
	if msg.Plan != nil {
		data.PlanName = msg.Plan.Label()
	}
	if msg.Subscription != nil {
		data.TransactionID = msg.Subscription.TransactionID
		data.ExpiresAt = msg.Subscription.ExpiresAt.Format("02 Jan 2006")
	}

	var body bytes.Buffer
	if err := welcomeTmpl.Execute(&body, data); err != nil {
		s.log.Error("failed to render welcome email", slog.String("op", op), sl.Err(err))
		return models.SendResult{Details: err.Error()}
	}

	subject := subjectWelcomePaid
	if msg.IsFreePlan {
		subject = subjectWelcomeFree
	}

	if err := s.sendEmail(msg.User.Email, subject, body.Bytes(), msg.Attachment); err != nil {
		s.log.Error("failed to send welcome email", slog.String("op", op), sl.Err(err))
		return models.SendResult{Details: err.Error()}
	}
	s.log.Info("welcome email sent", slog.String("to", msg.User.Email))
	return models.SendResult{Success: true}
}

// SendExpiryReminder обрабатывает сообщение очереди уведомлений
// и отправляет напоминание об истечении подписки.
func (s *Service) SendExpiryReminder(body []byte) error {
	const op = "sender.SendExpiryReminder"

	var info models.ExpiryInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return fmt.Errorf("%s: unmarshal message: %w", op, err)
	}

	text := fmt.Sprintf(
		"Hello, %s!\n\nYour %s subscription expires on %s.\nPlease renew it in advance to keep your services running.\n\n— IoT Solutions Company",
		info.Username, info.PlanName, info.ExpiresAt.Format("02 Jan 2006"))
	htmlBody := "<html><body><pre style=\"font-family: inherit;\">" +
		template.HTMLEscapeString(text) + "</pre></body></html>"

	if err := s.sendEmail(info.Email, subjectExpiry, []byte(htmlBody), nil); err != nil {
		s.log.Error("failed to send expiry reminder", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("expiry reminder sent", slog.String("to", info.Email))
	return nil
}

// sendEmail собирает MIME-сообщение (multipart при наличии вложения)
// и отправляет его через транспорт.
func (s *Service) sendEmail(to, subject string, htmlBody []byte, attachment *models.Attachment) error {
	var msg bytes.Buffer
	from := s.transport.GetSMTPUser()

	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")

	if attachment == nil {
		msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		msg.Write(htmlBody)
	} else {
		writer := multipart.NewWriter(&msg)
		fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

		htmlPart, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type": {"text/html; charset=\"UTF-8\""},
		})
		if err != nil {
			return fmt.Errorf("failed to create html part: %w", err)
		}
		if _, err = htmlPart.Write(htmlBody); err != nil {
			return fmt.Errorf("failed to write html part: %w", err)
		}

		attachmentPart, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {attachment.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", attachment.Filename)},
		})
		if err != nil {
			return fmt.Errorf("failed to create attachment part: %w", err)
		}
		encoded := base64.StdEncoding.EncodeToString(attachment.Content)
		for len(encoded) > 0 {
			n := min(76, len(encoded))
			if _, err = fmt.Fprintf(attachmentPart, "%s\r\n", encoded[:n]); err != nil {
				return fmt.Errorf("failed to write attachment: %w", err)
			}
			encoded = encoded[n:]
		}
		if err = writer.Close(); err != nil {
			return fmt.Errorf("failed to close multipart writer: %w", err)
		}
	}

	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set mail sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient %s: %w", to, err)
	}
	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get write closer: %w", err)
	}
	if _, err = wc.Write(msg.Bytes()); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("failed to close write closer: %w", err)
	}
	if err = client.Quit(); err != nil {
		return fmt.Errorf("failed to quit SMTP client: %w", err)
	}
	return nil
}
