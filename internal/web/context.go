package web

import (
	"net/http"

	"github.com/JonMunkholm/talentdesk/internal/core"
)

// requestMetadata attaches the client IP and User-Agent to every request
// context for the service's session logs. RemoteAddr has already been
// resolved by TrustedRealIP.
func requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.WithRequestMeta(r.Context(), core.RequestMeta{
			ClientIP:  r.RemoteAddr,
			UserAgent: r.Header.Get("User-Agent"),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
