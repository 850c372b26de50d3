// Package backoffice собирает HTTP-приложение бэк-офиса: хранилище,
// миграции, кеш, почтовый транспорт, сервисы и маршруты.
package backoffice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/NartechSolution/fatsAiBackend/internal/cache"
	"github.com/NartechSolution/fatsAiBackend/internal/config"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/invoice"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/jwt"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/smtp"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/sl"
	"github.com/NartechSolution/fatsAiBackend/internal/migrations"
	auditservice "github.com/NartechSolution/fatsAiBackend/internal/services/audit"
	authservice "github.com/NartechSolution/fatsAiBackend/internal/services/auth"
	registrationservice "github.com/NartechSolution/fatsAiBackend/internal/services/registration"
	senderservice "github.com/NartechSolution/fatsAiBackend/internal/services/sender"
	"github.com/NartechSolution/fatsAiBackend/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		// Кеш настроек необязателен: без Redis настройки читаются из базы.
		logger.Warn("redis unavailable, audit settings cache disabled", sl.Err(err))
		cacheRedis = nil
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.New(transport, logger)
	renderer := invoice.NewPDFRenderer(cfg.BackendURL)

	registrationService := registrationservice.New(
		db, db, db, renderer, senderService, jwtMaker, logger, cfg.DocumentsDir)
	authService := authservice.New(db, db, jwtMaker, logger)

	var settingsCache auditservice.SettingsCache
	if cacheRedis != nil {
		settingsCache = cacheRedis
	}
	auditService := auditservice.New(db, settingsCache, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, registrationService, authService, auditService, cfg.DocumentsDir)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
