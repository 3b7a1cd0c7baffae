package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/xlselect/internal/config"
	"github.com/JonMunkholm/xlselect/internal/logging"
)

// Auth error codes returned in the JSON body.
const (
	CodeMissingKey = "AUTH001"
	CodeInvalidKey = "AUTH002"
)

// APIKeyAuth returns middleware that checks the X-API-Key header against
// cfg.APIKeys. Requests pass through untouched when cfg.RequireAPIKey is
// false; with no keys configured every request is rejected.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				deny(w, r, http.StatusUnauthorized, "missing API key", CodeMissingKey)
				return
			}
			if !isValidAPIKey(key, cfg.APIKeys) {
				deny(w, r, http.StatusForbidden, "invalid API key", CodeInvalidKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, status int, msg, code string) {
	logging.FromContext(r.Context()).Warn("auth: "+msg,
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}

// isValidAPIKey compares key against every configured key in constant time,
// so timing does not reveal which key matched.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, validKey := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return valid == 1
}
