package middleware

import (
	"fmt"
	"net"
	"net/http"

	"github.com/ChristopherDonnelly/message-board/internal/middleware/ratelimiter"
	"github.com/ChristopherDonnelly/message-board/internal/utils"
)

// RateLimit throttles requests per key as produced by getIdentity.
func RateLimit(rl *ratelimiter.KeyRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetIP keys on the TCP peer address. Forwarding headers are not trusted.
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

// GetUserOrIP keys on the session's user, falling back to the client IP for
// anonymous requests.
func GetUserOrIP(r *http.Request) (string, error) {
	if auth := GetAuth(r); auth.Authenticated() {
		return "user_" + auth.UserId.String(), nil
	}
	return GetIP(r)
}
