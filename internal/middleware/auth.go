package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/Lixing-Zhang/food-dashboard/internal/config"
)

// APIKeyHeader is the header dashboards send their key in
const APIKeyHeader = "api_key"

// APIKeyAuth middleware validates the API key header.
// With no keys configured the collection is open, like a json-server dev backend.
func APIKeyAuth(cfg config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(cfg.APIKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get(APIKeyHeader)
			if apiKey == "" {
				// Browsers cannot set headers on websocket upgrades
				apiKey = r.URL.Query().Get(APIKeyHeader)
			}

			if apiKey == "" {
				http.Error(w, "Unauthorized: API key required", http.StatusUnauthorized)
				return
			}

			valid := false
			for _, validKey := range cfg.APIKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(validKey)) == 1 {
					valid = true
					break
				}
			}

			if !valid {
				http.Error(w, "Forbidden: Invalid API key", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
