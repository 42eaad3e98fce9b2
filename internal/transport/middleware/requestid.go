package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/orderhub/order-management/pkg/logger"
)

// RequestID accepts an X-Trace-ID header or mints one, attaches it to the
// context logger and echoes it back on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		w.Header().Set("X-Trace-ID", traceID)

		ctx := logger.With(r.Context(), "trace_id", traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
