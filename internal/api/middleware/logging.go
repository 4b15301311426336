package middleware

import (
	"net/http"
	"time"
)

// Logging пишет строку access-лога на каждый запрос
func Logging(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := newStatusRecorder(w)
			next.ServeHTTP(recorder, r)

			requestID, _ := GetRequestID(r.Context())
			duration := time.Since(start)

			switch {
			case recorder.status >= http.StatusInternalServerError:
				logger.Error("%s %s - status=%d, duration=%s, request_id=%s",
					r.Method, r.URL.Path, recorder.status, duration, requestID)
			case recorder.status >= http.StatusBadRequest:
				logger.Warn("%s %s - status=%d, duration=%s, request_id=%s",
					r.Method, r.URL.Path, recorder.status, duration, requestID)
			default:
				logger.Info("%s %s - status=%d, duration=%s, request_id=%s",
					r.Method, r.URL.Path, recorder.status, duration, requestID)
			}
		})
	}
}
