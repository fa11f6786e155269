package middleware

import (
	"net"
	"net/http"

	rl "github.com/rogerio-castellano/catalog-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/catalog-api/internal/http/respond"
)

// RateLimitMiddleware throttles each client IP with its own token bucket.
func RateLimitMiddleware(visitors *rl.Visitors) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !visitors.Allow(clientIP(r)) {
				_ = respond.JSON(w, http.StatusTooManyRequests,
					respond.ErrorResponse{Error: "too many requests"},
					http.Header{"Retry-After": {"1"}})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
