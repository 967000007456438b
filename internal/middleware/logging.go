package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ChristopherDonnelly/message-board/internal/logger"
	"github.com/ChristopherDonnelly/message-board/internal/middleware/metrics"
)

const RequestIdHeader = "X-Request-Id"

// RequestLogger tags the request with an id, exposes a logger carrying it
// through the context and logs one line per request after it completes.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestId := uuid.NewString()
		w.Header().Set(RequestIdHeader, requestId)
		ctx := logger.With(r.Context(), "request_id", requestId)

		wrapped := metrics.NewStatusRecorder(w)
		next.ServeHTTP(wrapped, r.WithContext(ctx))

		logger.FromContext(ctx).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.Status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
