package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/NartechSolution/fatsAiBackend/internal/http/response"
)

var limiter = rate.NewLimiter(10, 30)

// RateLimitMiddleware ограничивает частоту запросов к защищённым маршрутам.
func RateLimitMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Error("too many requests")
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Response{
					Success: false,
					Message: "Too many requests",
					Error: &response.ErrorBody{
						Message: "Too many requests",
						Type:    "RATE_LIMIT_ERROR",
						Code:    http.StatusTooManyRequests,
					},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
