package api

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/grocerylistapp/grocerylist/internal/http/response"
	"github.com/grocerylistapp/grocerylist/internal/ratelimit"
)

// RateLimitMiddleware rejects requests from a client address that has used up
// its bucket. Rejected requests get 429 with a Retry-After hint.
func RateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, wait time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)
				response.TooManyRequests(w, wait, logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the request's remote host. Forwarding headers are ignored
// since the server only listens on loopback.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// retryAfter is the time one token takes to refill.
func retryAfter(rps float64) time.Duration {
	if rps <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / rps)
}
