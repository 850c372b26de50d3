// Package register обрабатывает регистрацию нового участника с подпиской.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/NartechSolution/fatsAiBackend/internal/http/response"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/apperr"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/sl"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
	"github.com/NartechSolution/fatsAiBackend/internal/services/registration"
)

// Service описывает контракт рабочего процесса регистрации.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*registration.Result, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	validate := validator.New()
	// У validator v9 нет встроенного тега datetime; параметр тега — формат даты.
	_ = validate.RegisterValidation("datetime", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(fl.Param(), fl.Field().String())
		return err == nil
	})
	return &Handler{
		log:      log,
		service:  service,
		validate: validate,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.RegisterRequest
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

	result, err := h.service.Register(r.Context(), req)
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		render.Status(r, apperr.Status(err))
		render.JSON(w, r, response.Fail(err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.Response{
		Success: true,
		Message: "User registered successfully",
		Data: map[string]any{
			"user_id":           result.User.ID,
			"transaction_id":    result.TransactionID,
			"plan_name":         result.Plan.Label(),
			"subscription_type": result.SubscriptionType,
			"is_free_plan":      result.IsFreePlan,
			"pdf_generation":    result.PDFGeneration,
			"email_sending":     result.EmailSending,
			"invoice_generated": result.InvoiceGenerated,
		},
		User:  response.NewUserView(result.User),
		Token: result.Token,
	})
}
