package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/http/response"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
)

// Limiter counts hits for a key inside a fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Name     string        // key namespace, e.g. "auth"
	Requests int           // max requests per window
	Window   time.Duration // window duration
	KeyFunc  func(r *http.Request) []string
}

type RateLimiter struct {
	store  Limiter
	config RateLimitConfig
}

func NewRateLimiter(store Limiter, config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = ClientIPKeyFunc
	}
	return &RateLimiter{store: store, config: config}
}

// Middleware rejects requests over the limit with 429. A nil store or a store
// error lets the request through.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl == nil || rl.store == nil {
				next.ServeHTTP(w, r)
				return
			}
			for _, key := range rl.config.KeyFunc(r) {
				ok, err := rl.store.Allow(r.Context(), rl.config.Name+":"+key, rl.config.Requests, rl.config.Window)
				if err != nil {
					logger.WarnContext(r.Context(), "rate limiter unavailable, allowing request", "error", err)
					break
				}
				if !ok {
					w.Header().Set("Retry-After", retryAfter(rl.config.Window))
					response.RateLimit(w, "Too many requests. Try again later.")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retryAfter(window time.Duration) string {
	secs := int(window.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// ClientIPKeyFunc keys requests by client IP.
func ClientIPKeyFunc(r *http.Request) []string {
	if ip := getClientIP(r); ip != "" {
		return []string{"ip:" + ip}
	}
	return nil
}

// getClientIP extracts the real client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
