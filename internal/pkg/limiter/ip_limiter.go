/*
Package limiter provides rate limiting functionality based on client IP addresses.

It uses the token bucket algorithm (rate.Limiter) per IP and runs a cleanup
goroutine that periodically removes inactive limiters to bound memory use.
*/
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"pawchat/internal/pkg/errs"
	"pawchat/internal/pkg/logx"
	"pawchat/internal/pkg/resp"
)

// cleanupInterval controls how often inactive limiters are reaped.
const cleanupInterval = 3 * time.Minute

// IPRateLimiter implements a request rate limiter keyed by client IP address.
type IPRateLimiter struct {
	// mu protects concurrent access to the limits map.
	mu sync.RWMutex

	// limits maps client IP addresses to their *rate.Limiter instances.
	limits map[string]*rate.Limiter

	// r is the sustained rate allowed per IP.
	r rate.Limit

	// b is the burst size (token bucket capacity) per IP.
	b int
}

// NewIPRateLimiter creates an IPRateLimiter with rate r and burst b and starts
// its background cleanup goroutine.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
	}

	go i.cleanUpVisitors()

	return i
}

// GetLimiter returns the rate limiter for the given IP, creating one on first use.
// Uses double-checked locking so concurrent first requests create a single limiter.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limits[ip]
	i.mu.RUnlock()

	if !exists {
		i.mu.Lock()
		limiter, exists = i.limits[ip]
		if !exists {
			limiter = rate.NewLimiter(i.r, i.b)
			i.limits[ip] = limiter
		}
		i.mu.Unlock()
	}

	return limiter
}

// cleanUpVisitors periodically removes limiters whose token bucket is full,
// meaning the IP has been idle long enough to refill completely.
func (i *IPRateLimiter) cleanUpVisitors() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		i.mu.Lock()
		count := 0
		for ip, limiter := range i.limits {
			if limiter.TokensAt(time.Now()) >= float64(limiter.Burst()) {
				delete(i.limits, ip)
				count++
			}
		}
		remaining := len(i.limits)
		i.mu.Unlock()

		logx.Info("Rate limiter cleanup finished", "removed", count, "remaining", remaining)
	}
}

// Middleware returns an HTTP middleware that enforces the per-IP limit,
// responding with 429 Too Many Requests when exceeded.
func (i *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)

		limiter := i.GetLimiter(ip)

		if !limiter.Allow() {
			rateLimitErr := errs.NewError(errs.ErrRateLimitExceeded)
			resp.RespondError(w, r, rateLimitErr)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientIP extracts the host part of the request's remote address for limiter keying.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if ip == "" {
		ip = "unknown_ip"
	}

	return ip
}
