// Package me возвращает профиль текущего пользователя с активной подпиской.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/NartechSolution/fatsAiBackend/internal/http/middlewarectx"
	"github.com/NartechSolution/fatsAiBackend/internal/http/response"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/apperr"
	"github.com/NartechSolution/fatsAiBackend/internal/lib/sl"
	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// Service описывает контракт получения профиля пользователя.
type Service interface {
	CurrentUser(ctx context.Context, userID string) (*models.User, *models.Subscription, error)
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
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("missing user id in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Fail(apperr.Unauthorized("Missing or invalid authorization header")))
		return
	}

	user, sub, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		log.Error("failed to load current user", sl.Err(err))
		render.Status(r, apperr.Status(err))
		render.JSON(w, r, response.Fail(err))
		return
	}

	render.JSON(w, r, response.Response{
		Success: true,
		Message: "User profile retrieved successfully",
		Data: map[string]any{
			"subscription": sub,
		},
		User: response.NewUserView(user),
	})
}
