package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/JonMunkholm/talentdesk/internal/config"
	"github.com/JonMunkholm/talentdesk/internal/logging"
)

// APIKeyHeader carries the caller's API key. Clients that cannot set custom
// headers may send "Authorization: Bearer <key>" instead.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth guards the JSON API. With RequireAPIKey off every request
// passes. With it on and no keys configured every request is rejected.
//
//	401 AUTH001  no key presented
//	403 AUTH002  key not recognised
func APIKeyAuth(cfg config.SecurityConfig) func(http.Handler) http.Handler {
	keys := newKeySet(cfg.APIKeys)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			key := presentedKey(r)
			switch {
			case key == "":
				logging.FromContext(r.Context()).Warn("auth: missing API key")
				writeJSONError(w, http.StatusUnauthorized, "missing API key", "AUTH001")
			case !keys.contains(key):
				logging.FromContext(r.Context()).Warn("auth: invalid API key")
				writeJSONError(w, http.StatusForbidden, "invalid API key", "AUTH002")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func presentedKey(r *http.Request) string {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// keySet holds the configured keys as bytes, converted once.
type keySet [][]byte

func newKeySet(keys []string) keySet {
	set := make(keySet, 0, len(keys))
	for _, k := range keys {
		set = append(set, []byte(k))
	}
	return set
}

// contains compares key against every entry in constant time, so timing
// does not reveal which key matched or how many are configured.
func (s keySet) contains(key string) bool {
	b := []byte(key)
	found := 0
	for _, k := range s {
		found |= subtle.ConstantTimeCompare(b, k)
	}
	return found == 1
}
