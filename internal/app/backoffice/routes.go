package backoffice

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/NartechSolution/fatsAiBackend/internal/http/handlers/audit/logcreate"
	"github.com/NartechSolution/fatsAiBackend/internal/http/handlers/audit/loglist"
	"github.com/NartechSolution/fatsAiBackend/internal/http/handlers/audit/settingsget"
	"github.com/NartechSolution/fatsAiBackend/internal/http/handlers/audit/settingsupdate"
	"github.com/NartechSolution/fatsAiBackend/internal/http/handlers/auth/login"
	"github.com/NartechSolution/fatsAiBackend/internal/http/handlers/auth/me"
	"github.com/NartechSolution/fatsAiBackend/internal/http/handlers/auth/nfclogin"
	"github.com/NartechSolution/fatsAiBackend/internal/http/handlers/auth/register"
	"github.com/NartechSolution/fatsAiBackend/internal/http/middlewarectx"
	auditservice "github.com/NartechSolution/fatsAiBackend/internal/services/audit"
	authservice "github.com/NartechSolution/fatsAiBackend/internal/services/auth"
	registrationservice "github.com/NartechSolution/fatsAiBackend/internal/services/registration"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	registrationService *registrationservice.Service,
	authService *authservice.Service,
	auditService *auditservice.Service,
	documentsDir string) {

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(middlewarectx.AuditMiddleware(auditService))

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/create-user", register.New(logger, registrationService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Post("/auth/login-nfc", nfclogin.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/auth/me", me.New(logger, authService).ServeHTTP)
			r.Route("/audit-logs", func(r chi.Router) {
				r.Get("/logs", loglist.New(logger, auditService).ServeHTTP)
				r.Post("/logs", logcreate.New(logger, auditService).ServeHTTP)
				r.Get("/settings", settingsget.New(logger, auditService).ServeHTTP)
				r.Put("/settings", settingsupdate.New(logger, auditService).ServeHTTP)
			})
		})
	})

	// Сгенерированные документы отдаются как статические файлы.
	uploadsDir := http.Dir(filepath.Clean(documentsDir))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(uploadsDir)))

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
