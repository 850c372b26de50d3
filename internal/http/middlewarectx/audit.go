package middlewarectx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
)

// maxAuditBodyPeek ограничивает объём тела, читаемый ради поля email.
const maxAuditBodyPeek = 1 << 20

// auditSkipPrefixes — маршруты, не попадающие в журнал аудита.
var auditSkipPrefixes = []string{
	"/api/v1/audit-logs",
	"/uploads",
	"/metrics",
	"/docs",
}

// AuditLogger записывает действие в журнал аудита. Реализация обязана
// не возвращать ошибок вызывающей стороне.
type AuditLogger interface {
	LogActivity(ctx context.Context, activity string, userID *string, userName, status string, details *string)
}

// AuditMiddleware возвращает сквозной перехватчик, записывающий каждый
// завершённый запрос в журнал аудита. Маршруты самого журнала,
// статические файлы и предзапросы OPTIONS исключены.
func AuditMiddleware(auditor AuditLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipAudit(r) {
				next.ServeHTTP(w, r)
				return
			}

			bodyEmail := peekBodyEmail(r)

			// Держатель заполняется JWT middleware ниже по цепочке.
			p := &principal{}
			r = r.WithContext(context.WithValue(r.Context(), principalCtxKey{}, p))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			activity := r.Method + " " + r.URL.Path
			statusCode := ww.Status()
			if statusCode == 0 {
				statusCode = http.StatusOK
			}
			status := "Success"
			if statusCode >= 400 {
				status = "Failed"
			}
			details := fmt.Sprintf("Status Code: %d - IP: %s", statusCode, clientIP(r))

			var userID *string
			userName := "Guest"
			if p.userID != "" {
				id := p.userID
				userID = &id
			}
			if p.email != "" {
				userName = p.email
			} else if bodyEmail != "" {
				userName = bodyEmail
			}

			// Запись не должна задерживать ответ и не должна отменяться
			// вместе с контекстом завершённого запроса.
			ctx := context.WithoutCancel(r.Context())
			go auditor.LogActivity(ctx, activity, userID, userName, status, &details)
		})
	}
}

func skipAudit(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	for _, prefix := range auditSkipPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// peekBodyEmail читает поле email из JSON-тела для анонимных запросов
// и восстанавливает тело для последующих обработчиков.
func peekBodyEmail(r *http.Request) string {
	if r.Body == nil || r.Method == http.MethodGet {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxAuditBodyPeek))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Email string `json:"email"`
	}
	if err = json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.Email
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
