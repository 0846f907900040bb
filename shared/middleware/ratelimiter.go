package middleware

import (
	"fmt"
	"net"
	"net/http"

	"github.com/tastelink/tastelink/shared/logger"
	"github.com/tastelink/tastelink/shared/middleware/ratelimiter"
	"github.com/tastelink/tastelink/shared/utils"
)

// KeyFunc picks the rate limiting key for a request.
type KeyFunc func(r *http.Request) (string, error)

func RateLimit(rl *ratelimiter.UserRateLimiter, key KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k, err := key(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(k) {
				logger.Log.Debug("rate limited", "key", k, "path", r.URL.Path)
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetIP extracts the client IP from RemoteAddr.
// Forwarding headers are not trusted.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}
	return ip, nil
}

// PreferKey uses primary when it yields a non-empty key and falls back otherwise.
// Signed-in visitors are limited per identity, anonymous ones per IP.
func PreferKey(primary, fallback KeyFunc) KeyFunc {
	return func(r *http.Request) (string, error) {
		if k, err := primary(r); err == nil && k != "" {
			return k, nil
		}
		return fallback(r)
	}
}
