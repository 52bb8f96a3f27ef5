package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// exemptPaths are reachable without credentials so probes and scrapers work.
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware rejects requests whose Authorization header does not
// carry one of the configured API keys. With no keys configured the
// middleware passes everything through.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([]string, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Missing or malformed Authorization header")
				return
			}
			for _, key := range keys {
				if subtle.ConstantTimeCompare([]byte(token), []byte(key)) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
		})
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
