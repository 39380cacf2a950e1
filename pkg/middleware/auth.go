package middleware

import (
	"net/http"
	"strings"

	"roombook/pkg/auth"
	"roombook/pkg/logger"
)

// BearerIdentity resolves the caller's identity from the Authorization header
// and stores it in the request context. Requests without a valid token are
// rejected before any handler runs; per-endpoint permission checks happen in
// the handlers themselves.
func BearerIdentity(verifier *auth.TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				rejectUnauthorized(w)
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				log.Warn("Bearer token rejected",
					"request_id", requestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				rejectUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), *identity)))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func rejectUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
