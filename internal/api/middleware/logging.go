package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

type principal struct {
	userID uint
}

const principalKey contextKey = "principal"

func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				status:         http.StatusOK,
			}

			// Auth runs further down the chain; it reports the principal back
			// through the shared holder.
			holder := &principal{}
			next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), principalKey, holder)))
			userID := holder.userID

			duration := time.Since(start)

			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.status,
				"size", wrapped.size,
				"duration", duration.String(),
				"ip", clientIP(r),
				"request_id", GetRequestID(r.Context()),
				"user_id", userID,
			)
		})
	}
}
