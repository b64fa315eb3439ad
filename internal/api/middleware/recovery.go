package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/api/response"
)

// Recovery turns a handler panic into a 500 envelope. A background analysis
// run is not affected; the tracker recovers its own panics.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				id, _ := RequestID(r.Context())
				slog.Error("panic recovered",
					"error", err,
					"request_id", id,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				response.Error(w, http.StatusInternalServerError,
					"INTERNAL_ERROR", "An unexpected error occurred", map[string]string{"request_id": id})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
