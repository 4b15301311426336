package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

const msgTooManyRequests = "слишком много запросов, повторите позже"

// RateLimit ограничивает число запросов с одного IP в минуту
func RateLimit(requestsPerMinute int, logger Logger) mux.MiddlewareFunc {
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("%s %s - Rate limit exceeded: remote_addr=%s", r.Method, r.URL.Path, r.RemoteAddr)
			handlers.RespondTooManyRequests(w, msgTooManyRequests)
		}),
	)
}
