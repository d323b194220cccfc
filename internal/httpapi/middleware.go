package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/debatelab/argdown-feedback-sub001/internal/logger"
)

// logRequests emits one structured entry per request after it completes.
func logRequests(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.WithFields(map[string]any{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"elapsed_ms": float64(time.Since(start).Microseconds()) / 1000.0,
				"request_id": middleware.GetReqID(r.Context()),
			}).Debug("http request")
		})
	}
}
