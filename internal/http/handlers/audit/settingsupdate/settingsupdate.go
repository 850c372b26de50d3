// Package settingsupdate обновляет настройки журнала аудита.
package settingsupdate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/NartechSolution/fatsAiBackend/internal/http/response"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/apperr"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/sl"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// Service описывает контракт частичного обновления настроек аудита.
type Service interface {
	UpdateSettings(ctx context.Context, req models.AuditSettingsRequest) (*models.AuditLogSettings, error)
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
	const op = "handlers.audit.settingsupdate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.AuditSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Fail(apperr.Validation("Invalid request body")))
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), req)
	if err != nil {
		log.Error("failed to update audit settings", sl.Err(err))
		render.Status(r, apperr.Status(err))
		render.JSON(w, r, response.Fail(err))
		return
	}

	render.JSON(w, r, response.OK("Audit settings updated successfully", settings))
}
