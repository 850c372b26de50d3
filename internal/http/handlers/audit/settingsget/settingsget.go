// Package settingsget возвращает настройки журнала аудита.
package settingsget

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/NartechSolution/fatsAiBackend/internal/http/response"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/apperr"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/sl"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// Service описывает контракт чтения настроек аудита. Строка настроек
// создается при первом обращении.
type Service interface {
	Settings(ctx context.Context) (*models.AuditLogSettings, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.audit.settingsget"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	settings, err := h.service.Settings(r.Context())
	if err != nil {
		log.Error("failed to load audit settings", sl.Err(err))
		render.Status(r, apperr.Status(err))
		render.JSON(w, r, response.Fail(err))
		return
	}

	render.JSON(w, r, response.OK("Audit settings retrieved successfully", settings))
}
