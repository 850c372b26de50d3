// Package logcreate обрабатывает ручное добавление записи в журнал аудита.
package logcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/NartechSolution/fatsAiBackend/internal/http/response"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/apperr"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/sl"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// Service описывает контракт ручного добавления записи аудита.
// CreateEntry возвращает nil без ошибки, если аудит выключен.
type Service interface {
	CreateEntry(ctx context.Context, req models.AuditLogRequest) (*models.AuditLog, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.audit.logcreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.AuditLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Fail(apperr.Validation("Invalid request body")))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	entry, err := h.service.CreateEntry(r.Context(), req)
	if err != nil {
		log.Error("failed to create audit log entry", sl.Err(err))
		render.Status(r, apperr.Status(err))
		render.JSON(w, r, response.Fail(err))
		return
	}
	if entry == nil {
		render.JSON(w, r, response.Response{
			Success: true,
			Message: "Audit logging is disabled",
		})
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK("Audit log entry created", entry))
}
