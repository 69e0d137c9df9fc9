package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"mostokey/pkg/domain"
	"mostokey/pkg/requestcontext"
)

// Claims represents the claims we expect from the token validator.
type Claims struct {
	Account string
}

// TokenValidator validates bearer tokens issued by the session layer.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// RequireAuth validates the Authorization header and injects the caller's
// account into the request context. Requests without a valid bearer token are
// rejected before reaching handlers.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "token validation failed",
					"request_id", requestcontext.RequestID(r.Context()),
					"error", err.Error(),
				)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			caller, err := domain.ParseAccountID(claims.Account)
			if err != nil {
				http.Error(w, "invalid token subject", http.StatusUnauthorized)
				return
			}

			ctx := requestcontext.WithCallerID(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
