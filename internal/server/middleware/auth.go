package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/roadsync/internal/server/handlers"
	"github.com/iudanet/roadsync/internal/server/jwt"
)

// TokenValidator проверяет access-токены
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware создает middleware для проверки JWT токена
func AuthMiddleware(logger *slog.Logger, tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(ctx, "Missing Authorization header", "request_id", GetRequestID(ctx))
				writeError(w, "missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				logger.WarnContext(ctx, "Invalid Authorization header format", "request_id", GetRequestID(ctx))
				writeError(w, "invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateAccessToken(token)
			if err != nil {
				logger.WarnContext(ctx, "Invalid access token",
					"request_id", GetRequestID(ctx),
					"error", err)
				writeError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			logger.DebugContext(ctx, "User authenticated", "user_id", claims.UserID)

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(ctx, claims.UserID, claims.Email)))
		})
	}
}
