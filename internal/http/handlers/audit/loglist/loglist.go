// Package loglist возвращает последние записи журнала аудита.
package loglist

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

// Service описывает контракт чтения журнала аудита.
type Service interface {
	RecentLogs(ctx context.Context) ([]*models.AuditLog, error)
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
	const op = "handlers.audit.loglist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	logs, err := h.service.RecentLogs(r.Context())
	if err != nil {
		log.Error("failed to list audit logs", sl.Err(err))
		render.Status(r, apperr.Status(err))
		render.JSON(w, r, response.Fail(err))
		return
	}
	if logs == nil {
		logs = []*models.AuditLog{}
	}

	render.JSON(w, r, response.OK("Audit logs retrieved successfully", logs))
}
