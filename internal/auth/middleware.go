package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/meridian-crm/meridian/internal/authz"
)

// Authenticator attaches the verified principal to the request context. A
// missing or failed verification leaves the request unauthenticated rather
// than rejecting it here; the access gate owns the 401, so every route is
// denied through the same path.
func Authenticator(verifier *TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			p, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				if logger != nil {
					logger.Debug("token rejected", slog.Any("error", err))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(authz.ContextWithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
