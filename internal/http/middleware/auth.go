package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/catalog-api/internal/auth"
	"github.com/rogerio-castellano/catalog-api/internal/http/respond"
)

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type contextKey string

const claimsKey = contextKey("claims")

// AuthMiddleware rejects requests without a valid bearer token and stores
// the decoded claims in the request context.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := verifier.Verify(BearerToken(r.Header.Get("Authorization")))
			if err != nil {
				if errors.Is(err, auth.ErrMissingToken) {
					_ = respond.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
					return
				}
				_ = respond.Error(w, http.StatusForbidden, auth.ErrInvalidToken.Error())
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an Authorization header value. It
// returns "" unless the header reads "Bearer <token>".
func BearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// ClaimsFromContext returns the claims stored by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
