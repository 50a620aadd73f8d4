// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/talentdesk/internal/logging"
)

// Logger puts a request logger into the context and logs one entry per
// request when the handler returns. The request logger carries chi's
// request id, method and path, so handler and service entries share them.
//
// Fields of the final entry:
//   - status: response status code
//   - bytes: response body size
//   - duration_ms: time spent in the handler
//   - ip: client address as resolved by TrustedRealIP
//   - user_agent: client user agent string
//
// Failed requests (5xx) are logged at Warn.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := logging.FromContext(r.Context()).With(
			"method", r.Method,
			"path", r.URL.Path,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(logging.IntoContext(r.Context(), logger)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		log := logger.Info
		if status >= http.StatusInternalServerError {
			log = logger.Warn
		}
		log("request",
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", clientIP(r.RemoteAddr),
			"user_agent", r.UserAgent(),
		)
	})
}
